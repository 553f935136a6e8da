package topics

// Renderer formats topic content for terminal display
type Renderer interface {
	// Render takes raw content and its file extension
	Render(content string, ext string) string
}

// PlainRenderer returns content as-is
type PlainRenderer struct{}

// Render returns the content unchanged
func (r *PlainRenderer) Render(content string, ext string) string {
	return content
}
