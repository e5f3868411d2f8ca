package domain

type Source struct {
	ID   string `json:"id,omitempty"`
	Name string `json:"name"`
}

// Article is passed through from the upstream API without validation.
type Article struct {
	Source      Source `json:"source"`
	Author      string `json:"author,omitempty"`
	Title       string `json:"title"`
	Description string `json:"description"`
	URL         string `json:"url"`
	URLToImage  string `json:"urlToImage,omitempty"`
	PublishedAt string `json:"publishedAt,omitempty"`
}

func (a Article) HasImage() bool {
	return a.URLToImage != ""
}

// NewsResponse is the upstream body as relayed by the proxy.
type NewsResponse struct {
	Status       string    `json:"status,omitempty"`
	TotalResults int       `json:"totalResults,omitempty"`
	Articles     []Article `json:"articles"`
	Error        string    `json:"error,omitempty"`
}
