package testutil

import "github.com/sanjeev23oct/copilotkit-chat-sub001/model"

// Canned provider outputs covering the shapes the parser has to absorb.
const (
	// EnvelopeWithCard is a compliant structured response.
	EnvelopeWithCard = `{"content":"Here is your card","agui":[{"type":"card","props":{"title":"Revenue","value":"$1.2M"}}]}`

	// EnvelopeFenced is a structured response wrapped in a markdown
	// fence with leading prose, which providers emit despite the
	// contract forbidding it.
	EnvelopeFenced = "Sure thing!\n```json\n{\"content\":\"fenced answer\"}\n```"

	// PlainTextResponse ignores the output contract entirely.
	PlainTextResponse = "I cannot produce JSON today."

	// SQLResponse is a compliant NL-to-SQL response.
	SQLResponse = `{"sql":"SELECT * FROM products","explanation":"Lists every product","confidence":0.9}`

	// SQLFreeTextResponse buries the statement in prose, exercising
	// the fallback extraction path.
	SQLFreeTextResponse = "Here is the query you asked for: SELECT * FROM products LIMIT 10; hope that helps."
)

// FragmentsFromText splits text into small deltas and closes the
// channel after the end-of-turn fragment, imitating a provider
// transport goroutine.
func FragmentsFromText(text string, totalTokens int) <-chan model.Fragment {
	const chunkSize = 7

	ch := make(chan model.Fragment, len(text)/chunkSize+2)
	for i := 0; i < len(text); i += chunkSize {
		end := i + chunkSize
		if end > len(text) {
			end = len(text)
		}
		ch <- model.Fragment{Delta: text[i:end]}
	}
	ch <- model.Fragment{Done: true, TotalTokens: totalTokens}
	close(ch)
	return ch
}

// FragmentsWithError delivers a few deltas and then a transport failure.
func FragmentsWithError(deltas []string, err error) <-chan model.Fragment {
	ch := make(chan model.Fragment, len(deltas)+1)
	for _, d := range deltas {
		ch <- model.Fragment{Delta: d}
	}
	ch <- model.Fragment{Err: err}
	close(ch)
	return ch
}
