package extract

import (
	"testing"

	"go.uber.org/zap"
)

func TestParse_DirectObject(t *testing.T) {
	p := NewResponseParser(zap.NewNop())

	obj := p.Parse(`{"data_ocorrencia": "2025-08-20 14:00", "local": "São Paulo", "tipo_incidente": "Falha", "impacto": null}`)
	if obj == nil {
		t.Fatal("Expected parsed object, got nil")
	}
	if obj["local"] != "São Paulo" {
		t.Errorf("Expected local=São Paulo, got %v", obj["local"])
	}
	if obj["impacto"] != nil {
		t.Errorf("Expected impacto=nil, got %v", obj["impacto"])
	}
}

func TestParse_JSONFence(t *testing.T) {
	p := NewResponseParser(zap.NewNop())

	response := "Aqui está o resultado:\n```json\n" +
		`{"data_ocorrencia": "2025-08-20 14:00", "local": "São Paulo", "tipo_incidente": "Falha no servidor", "impacto": "Sistema indisponível"}` +
		"\n```\nEspero ter ajudado!"

	obj := p.Parse(response)
	if obj == nil {
		t.Fatal("Expected parsed object, got nil")
	}
	if len(obj) != 4 {
		t.Errorf("Expected exactly 4 fields, got %d", len(obj))
	}
	if obj["tipo_incidente"] != "Falha no servidor" {
		t.Errorf("Expected tipo_incidente from fence, got %v", obj["tipo_incidente"])
	}
}

func TestParse_GenericFence(t *testing.T) {
	p := NewResponseParser(zap.NewNop())

	response := "```\n" + `{"local": "Recife"}` + "\n```"
	obj := p.Parse(response)
	if obj == nil {
		t.Fatal("Expected parsed object, got nil")
	}
	if obj["local"] != "Recife" {
		t.Errorf("Expected local=Recife, got %v", obj["local"])
	}
}

func TestParse_ObjectEmbeddedInProse(t *testing.T) {
	p := NewResponseParser(zap.NewNop())

	response := `Com base no texto, o resultado é {"local": "Recife", "tipo_incidente": "falha"} conforme solicitado.`
	obj := p.Parse(response)
	if obj == nil {
		t.Fatal("Expected parsed object, got nil")
	}
	if obj["local"] != "Recife" {
		t.Errorf("Expected local=Recife, got %v", obj["local"])
	}
}

func TestParse_LeadingBraceWithTrailingProse(t *testing.T) {
	p := NewResponseParser(zap.NewNop())

	// Direct decode fails on the trailing text; the substring strategy
	// must still recover the object.
	response := `{"local": "Recife"} obrigado!`
	obj := p.Parse(response)
	if obj == nil {
		t.Fatal("Expected parsed object, got nil")
	}
	if obj["local"] != "Recife" {
		t.Errorf("Expected local=Recife, got %v", obj["local"])
	}
}

func TestParse_NoJSON(t *testing.T) {
	p := NewResponseParser(zap.NewNop())

	tests := []string{
		"",
		"   ",
		"Desculpe, não consegui processar o texto.",
		"```json\nisto não é json\n```",
	}
	for _, input := range tests {
		if obj := p.Parse(input); obj != nil {
			t.Errorf("Parse(%q): expected nil, got %v", input, obj)
		}
	}
}
