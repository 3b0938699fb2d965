package components

import (
	"html"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/gravitrone/credir/internal/api"
)

var (
	pageLinkStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#d7d9da")).
			Padding(0, 1)
	pageLinkActiveStyle = pageLinkStyle.
				Foreground(lipgloss.Color("#16161d")).
				Background(lipgloss.Color("#7f57b4")).
				Bold(true)
	pageLinkDisabledStyle = pageLinkStyle.
				Foreground(lipgloss.Color("#4a5060"))
	pageLinkCursorStyle = pageLinkStyle.
				Foreground(lipgloss.Color("#ffbf3f")).
				Underline(true)
)

// Pagination renders the server's page links as they were sent. A link
// without a URL is shown but cannot be followed.
type Pagination struct {
	links   []api.Link
	cursor  int
	focused bool
}

func NewPagination() *Pagination {
	return &Pagination{}
}

// SetLinks replaces the links and puts the cursor on the active page.
func (p *Pagination) SetLinks(links []api.Link) {
	p.links = links
	p.cursor = 0
	for i, l := range links {
		if l.Active {
			p.cursor = i
			return
		}
	}
	if i, ok := p.nextEnabled(-1, 1); ok {
		p.cursor = i
	}
}

func (p *Pagination) Links() []api.Link { return p.links }
func (p *Pagination) Cursor() int       { return p.cursor }

func (p *Pagination) Focus()        { p.focused = true }
func (p *Pagination) Blur()         { p.focused = false }
func (p *Pagination) Focused() bool { return p.focused }

// LinkLabel decodes the HTML entities in a server label.
func LinkLabel(l api.Link) string {
	return html.UnescapeString(l.Label)
}

// Prev returns the previous-page link when it can be followed.
func (p *Pagination) Prev() (api.Link, bool) {
	if len(p.links) == 0 || p.links[0].URL == nil {
		return api.Link{}, false
	}
	return p.links[0], true
}

// Next returns the next-page link when it can be followed.
func (p *Pagination) Next() (api.Link, bool) {
	if len(p.links) == 0 || p.links[len(p.links)-1].URL == nil {
		return api.Link{}, false
	}
	return p.links[len(p.links)-1], true
}

func (p *Pagination) nextEnabled(from, dir int) (int, bool) {
	for i := from + dir; i >= 0 && i < len(p.links); i += dir {
		if p.links[i].URL != nil {
			return i, true
		}
	}
	return 0, false
}

// Follow emits the request for link i. Disabled links yield nil.
func (p *Pagination) Follow(i int) tea.Cmd {
	if i < 0 || i >= len(p.links) || p.links[i].URL == nil {
		return nil
	}
	l := p.links[i]
	return emit(PageLinkMsg{URL: *l.URL, Label: LinkLabel(l)})
}

func (p *Pagination) Update(msg tea.Msg) tea.Cmd {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		if !p.focused {
			return nil
		}
		switch msg.String() {
		case "left", "h":
			if i, ok := p.nextEnabled(p.cursor, -1); ok {
				p.cursor = i
			}
		case "right", "l":
			if i, ok := p.nextEnabled(p.cursor, 1); ok {
				p.cursor = i
			}
		case "enter":
			return p.Follow(p.cursor)
		}
	case tea.MouseMsg:
		if msg.Action == tea.MouseActionPress && msg.Button == tea.MouseButtonLeft {
			if i, ok := p.LinkAt(msg.X); ok {
				p.cursor = i
				return p.Follow(i)
			}
		}
	}
	return nil
}

func (p *Pagination) renderLink(i int) string {
	l := p.links[i]
	label := SanitizeOneLine(LinkLabel(l))
	switch {
	case l.Active:
		return pageLinkActiveStyle.Render(label)
	case l.URL == nil:
		return pageLinkDisabledStyle.Render(label)
	case p.focused && i == p.cursor:
		return pageLinkCursorStyle.Render(label)
	default:
		return pageLinkStyle.Render(label)
	}
}

// LinkAt maps an x offset within the rendered control to a link index.
func (p *Pagination) LinkAt(x int) (int, bool) {
	pos := 0
	for i := range p.links {
		w := lipgloss.Width(p.renderLink(i))
		if x >= pos && x < pos+w {
			return i, true
		}
		pos += w + 1
	}
	return 0, false
}

func (p *Pagination) View() string {
	parts := make([]string, len(p.links))
	for i := range p.links {
		parts[i] = p.renderLink(i)
	}
	return strings.Join(parts, " ")
}
