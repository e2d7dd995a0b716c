package slideshow

import "fmt"

// Playlist is a fixed list of image identifiers iterated cyclically.
// It is meant for a single consumer.
type Playlist struct {
	identifiers []string
	position    int
}

func NewPlaylist(identifiers []string) (*Playlist, error) {
	if len(identifiers) == 0 {
		return nil, fmt.Errorf("playlist needs at least one image")
	}
	return &Playlist{
		identifiers: append([]string(nil), identifiers...),
	}, nil
}

// Next returns the next identifier, wrapping to the first one after the last
func (p *Playlist) Next() string {
	identifier := p.identifiers[p.position]
	p.position = (p.position + 1) % len(p.identifiers)
	return identifier
}

func (p *Playlist) Len() int {
	return len(p.identifiers)
}
