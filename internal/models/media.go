package models

// MediaBundle is extra media shown after a project's own images
type MediaBundle struct {
	Video     string   `yaml:"video" json:"video,omitempty"`
	VideoType string   `yaml:"video_type" json:"video_type,omitempty"`
	Images    []string `yaml:"images" json:"images,omitempty"`
}

// Empty reports whether the bundle carries no media
func (b MediaBundle) Empty() bool {
	return b.Video == "" && len(b.Images) == 0
}
