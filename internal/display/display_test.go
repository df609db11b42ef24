package display

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"

	"laribot/internal/transcript"
)

func TestRenderer_Text(t *testing.T) {
	var buf bytes.Buffer
	r := NewRenderer(&buf)

	r.Render(transcript.Message{
		Role:    transcript.RoleAssistant,
		Content: "uma resposta simples",
		Type:    transcript.TypeText,
	})

	assert.Contains(t, buf.String(), "uma resposta simples")
	assert.Contains(t, buf.String(), "Bot:")
}

func TestRenderer_UserLabel(t *testing.T) {
	var buf bytes.Buffer
	r := NewRenderer(&buf)

	r.Render(transcript.Message{
		Role:    transcript.RoleUser,
		Content: "oi",
		Type:    transcript.TypeText,
	})

	assert.Contains(t, buf.String(), "Você:")
}

func TestRenderer_Image(t *testing.T) {
	var buf bytes.Buffer
	r := NewRenderer(&buf)

	r.Render(transcript.Message{
		Role:    transcript.RoleAssistant,
		Content: "https://img.example/fox.png",
		Type:    transcript.TypeImage,
	})

	assert.Contains(t, buf.String(), "https://img.example/fox.png")
}

func TestRenderer_Code(t *testing.T) {
	var buf bytes.Buffer
	r := NewRenderer(&buf)

	r.Render(transcript.Message{
		Role:     transcript.RoleAssistant,
		Content:  "somecode",
		Type:     transcript.TypeCode,
		Language: "python",
	})

	assert.Contains(t, buf.String(), "somecode")
	assert.Contains(t, buf.String(), "python")
}

func TestRenderer_RenderAll(t *testing.T) {
	var buf bytes.Buffer
	r := NewRenderer(&buf)

	r.RenderAll([]transcript.Message{
		{Role: transcript.RoleUser, Content: "primeira", Type: transcript.TypeText},
		{Role: transcript.RoleAssistant, Content: "segunda", Type: transcript.TypeText},
	})

	out := buf.String()
	assert.Contains(t, out, "primeira")
	assert.Contains(t, out, "segunda")
	assert.Less(t, bytes.Index(buf.Bytes(), []byte("primeira")), bytes.Index(buf.Bytes(), []byte("segunda")))
}

func TestHighlight_UnknownLanguageFallsBack(t *testing.T) {
	out := highlight("plain body", "no-such-language")
	assert.Contains(t, out, "plain")
}
