package nl2sql

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/sanjeev23oct/copilotkit-chat-sub001/model"
	"github.com/sanjeev23oct/copilotkit-chat-sub001/provider/testutil"
)

var testSchema = []Column{
	{TableName: "products", ColumnName: "id", DataType: "integer", Nullable: false},
	{TableName: "products", ColumnName: "name", DataType: "text", Nullable: false},
	{TableName: "products", ColumnName: "price", DataType: "numeric", Nullable: true},
	{TableName: "orders", ColumnName: "id", DataType: "integer", Nullable: false},
	{TableName: "orders", ColumnName: "product_id", DataType: "integer", Nullable: false},
}

func TestConvertStructuredResponse(t *testing.T) {
	mock := testutil.NewMockProvider("test-model").RespondWith(testutil.SQLResponse, 30)
	conv := NewConverter(mock)

	result, err := conv.Convert(context.Background(), "show me all products", testSchema, nil)
	if err != nil {
		t.Fatalf("Convert() error = %v", err)
	}
	if result.SQL != "SELECT * FROM products" {
		t.Errorf("SQL = %q, want %q", result.SQL, "SELECT * FROM products")
	}
	if result.Explanation != "Lists every product" {
		t.Errorf("Explanation = %q", result.Explanation)
	}
	if result.Confidence != 0.9 {
		t.Errorf("Confidence = %v, want 0.9", result.Confidence)
	}
}

func TestConvertFallbackExtraction(t *testing.T) {
	mock := testutil.NewMockProvider("test-model").RespondWith(testutil.SQLFreeTextResponse, 25)
	conv := NewConverter(mock)

	result, err := conv.Convert(context.Background(), "show me some products", testSchema, nil)
	if err != nil {
		t.Fatalf("Convert() error = %v", err)
	}
	if result.SQL != "SELECT * FROM products LIMIT 10" {
		t.Errorf("SQL = %q, want %q", result.SQL, "SELECT * FROM products LIMIT 10")
	}
	if result.Confidence != FallbackConfidence {
		t.Errorf("Confidence = %v, want %v", result.Confidence, FallbackConfidence)
	}
	if result.Explanation == "" {
		t.Error("fallback explanation should not be empty")
	}
}

func TestConvertMissingConfidenceUsesDefault(t *testing.T) {
	raw := `{"sql":"SELECT name FROM products","explanation":"Product names"}`
	mock := testutil.NewMockProvider("test-model").RespondWith(raw, 20)
	conv := NewConverter(mock)

	result, err := conv.Convert(context.Background(), "list product names", testSchema, nil)
	if err != nil {
		t.Fatalf("Convert() error = %v", err)
	}
	if result.Confidence != DefaultConfidence {
		t.Errorf("Confidence = %v, want %v", result.Confidence, DefaultConfidence)
	}
}

func TestConvertOutOfRangeConfidenceClamped(t *testing.T) {
	raw := `{"sql":"SELECT 1","explanation":"trivial","confidence":7.5}`
	mock := testutil.NewMockProvider("test-model").RespondWith(raw, 10)
	conv := NewConverter(mock)

	result, err := conv.Convert(context.Background(), "anything", testSchema, nil)
	if err != nil {
		t.Fatalf("Convert() error = %v", err)
	}
	if result.Confidence != DefaultConfidence {
		t.Errorf("Confidence = %v, want %v", result.Confidence, DefaultConfidence)
	}
}

func TestConvertFencedResponse(t *testing.T) {
	raw := "```json\n{\"sql\":\"SELECT id FROM orders\",\"explanation\":\"Order IDs\",\"confidence\":0.85}\n```"
	mock := testutil.NewMockProvider("test-model").RespondWith(raw, 15)
	conv := NewConverter(mock)

	result, err := conv.Convert(context.Background(), "list order ids", testSchema, nil)
	if err != nil {
		t.Fatalf("Convert() error = %v", err)
	}
	if result.SQL != "SELECT id FROM orders" {
		t.Errorf("SQL = %q", result.SQL)
	}
	if result.Confidence != 0.85 {
		t.Errorf("Confidence = %v, want 0.85", result.Confidence)
	}
}

func TestConvertMultiLineSQLCollapsed(t *testing.T) {
	raw := `{"sql":"SELECT id,\n       name\nFROM products","explanation":"two columns","confidence":0.9}`
	mock := testutil.NewMockProvider("test-model").RespondWith(raw, 15)
	conv := NewConverter(mock)

	result, err := conv.Convert(context.Background(), "ids and names", testSchema, nil)
	if err != nil {
		t.Fatalf("Convert() error = %v", err)
	}
	if strings.ContainsAny(result.SQL, "\n\t") {
		t.Errorf("SQL contains line breaks: %q", result.SQL)
	}
	if result.SQL != "SELECT id, name FROM products" {
		t.Errorf("SQL = %q", result.SQL)
	}
}

func TestConvertNoSQLAtAll(t *testing.T) {
	mock := testutil.NewMockProvider("test-model").RespondWith("I do not know how to answer that.", 10)
	conv := NewConverter(mock)

	result, err := conv.Convert(context.Background(), "gibberish", testSchema, nil)
	if err != nil {
		t.Fatalf("Convert() error = %v", err)
	}
	if result.SQL != "" {
		t.Errorf("SQL = %q, want empty", result.SQL)
	}
	if result.Confidence != FallbackConfidence {
		t.Errorf("Confidence = %v, want %v", result.Confidence, FallbackConfidence)
	}
}

func TestConvertTransportError(t *testing.T) {
	transportErr := errors.New("connection refused")
	mock := testutil.NewMockProvider("test-model").FailWith(transportErr)
	conv := NewConverter(mock)

	_, err := conv.Convert(context.Background(), "show products", testSchema, nil)
	if err == nil {
		t.Fatal("Convert() should fail on transport error")
	}
	var convErr *ConversionError
	if !errors.As(err, &convErr) {
		t.Fatalf("error type = %T, want *ConversionError", err)
	}
	if !errors.Is(err, transportErr) {
		t.Error("ConversionError should unwrap to the transport error")
	}
}

func TestConvertPromptsIncludeSchemaAndHints(t *testing.T) {
	mock := testutil.NewMockProvider("test-model").RespondWith(testutil.SQLResponse, 10)
	conv := NewConverter(mock)

	_, err := conv.Convert(context.Background(), "show products", testSchema, []string{"products"})
	if err != nil {
		t.Fatalf("Convert() error = %v", err)
	}

	if len(mock.LastMessages) != 2 {
		t.Fatalf("message count = %d, want 2", len(mock.LastMessages))
	}
	system := mock.LastMessages[0]
	if system.Role != model.RoleSystem {
		t.Errorf("first message role = %q, want system", system.Role)
	}
	if !strings.Contains(system.Content, "SELECT") {
		t.Error("system prompt should state the read-only constraint")
	}

	user := mock.LastMessages[1].Content
	if !strings.Contains(user, "Table products:") {
		t.Errorf("user prompt missing hinted table:\n%s", user)
	}
	if strings.Contains(user, "Table orders:") {
		t.Errorf("user prompt should omit unhinted tables:\n%s", user)
	}
	if !strings.Contains(user, "show products") {
		t.Error("user prompt should carry the question")
	}

	if mock.LastOptions.Temperature != conv.Temperature {
		t.Errorf("Temperature = %v, want %v", mock.LastOptions.Temperature, conv.Temperature)
	}
}

func TestExtractSelect(t *testing.T) {
	tests := []struct {
		name string
		text string
		want string
	}{
		{"terminated by semicolon", "use SELECT a FROM b; done", "SELECT a FROM b"},
		{"runs to end of text", "the answer is select count(*) from orders", "select count(*) from orders"},
		{"no select present", "cannot help with that", ""},
		{"multiline statement", "```\nSELECT a,\n b FROM c;\n```", "SELECT a, b FROM c"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := extractSelect(tt.text); got != tt.want {
				t.Errorf("extractSelect(%q) = %q, want %q", tt.text, got, tt.want)
			}
		})
	}
}
