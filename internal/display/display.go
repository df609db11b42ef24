// Package display renders transcript messages to a terminal: styled role
// labels, syntax-highlighted code blocks, and image URL references.
package display

import (
	"fmt"
	"io"
	"strings"

	"github.com/alecthomas/chroma/v2"
	"github.com/alecthomas/chroma/v2/formatters"
	"github.com/alecthomas/chroma/v2/lexers"
	chromaStyles "github.com/alecthomas/chroma/v2/styles"
	"github.com/charmbracelet/lipgloss"

	"laribot/internal/transcript"
)

// Renderer writes formatted transcript messages to an output stream.
type Renderer struct {
	out            io.Writer
	userStyle      lipgloss.Style
	assistantStyle lipgloss.Style
	imageStyle     lipgloss.Style
	langStyle      lipgloss.Style
}

// NewRenderer creates a renderer writing to out.
func NewRenderer(out io.Writer) *Renderer {
	return &Renderer{
		out:            out,
		userStyle:      lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("12")),
		assistantStyle: lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("10")),
		imageStyle:     lipgloss.NewStyle().Foreground(lipgloss.Color("13")).Underline(true),
		langStyle:      lipgloss.NewStyle().Faint(true),
	}
}

// roleLabel returns the styled display name for a role.
func (r *Renderer) roleLabel(role transcript.Role) string {
	if role == transcript.RoleUser {
		return r.userStyle.Render("Você:")
	}
	return r.assistantStyle.Render("Bot:")
}

// Render writes one message according to its type.
func (r *Renderer) Render(msg transcript.Message) {
	switch msg.Type {
	case transcript.TypeCode:
		if msg.Language != "" {
			fmt.Fprintf(r.out, "%s %s\n", r.roleLabel(msg.Role), r.langStyle.Render("["+msg.Language+"]"))
		} else {
			fmt.Fprintf(r.out, "%s\n", r.roleLabel(msg.Role))
		}
		fmt.Fprintln(r.out, highlight(msg.Content, msg.Language))
	case transcript.TypeImage:
		fmt.Fprintf(r.out, "%s %s\n", r.roleLabel(msg.Role), r.imageStyle.Render(msg.Content))
	default:
		fmt.Fprintf(r.out, "%s %s\n", r.roleLabel(msg.Role), msg.Content)
	}
}

// RenderAll replays a full transcript, e.g. after a clear notice.
func (r *Renderer) RenderAll(msgs []transcript.Message) {
	for _, msg := range msgs {
		r.Render(msg)
	}
}

// Notice writes an out-of-transcript status line.
func (r *Renderer) Notice(text string) {
	fmt.Fprintln(r.out, r.langStyle.Render(text))
}

// highlight applies terminal syntax highlighting keyed by the language tag,
// falling back to the raw code when the language is unknown.
func highlight(code, language string) string {
	lexer := lexers.Get(language)
	if lexer == nil {
		lexer = lexers.Analyse(code)
	}
	if lexer == nil {
		lexer = lexers.Fallback
	}
	lexer = chroma.Coalesce(lexer)

	style := chromaStyles.Get("monokai")
	if style == nil {
		style = chromaStyles.Fallback
	}

	formatter := formatters.Get("terminal256")
	if formatter == nil {
		formatter = formatters.Fallback
	}

	iterator, err := lexer.Tokenise(nil, code)
	if err != nil {
		return code
	}

	var buf strings.Builder
	if err := formatter.Format(&buf, style, iterator); err != nil {
		return code
	}

	return buf.String()
}
