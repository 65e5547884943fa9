package feeds

import (
	"encoding/xml"
	"strings"
	"time"
)

type opmlOutline struct {
	Type     string        `xml:"type,attr,omitempty"`
	Text     string        `xml:"text,attr,omitempty"`
	XMLURL   string        `xml:"xmlUrl,attr,omitempty"`
	XMLURLLC string        `xml:"xmlurl,attr,omitempty"`
	URL      string        `xml:"url,attr,omitempty"`
	Outlines []opmlOutline `xml:"outline"`
}

type opmlHead struct {
	Title       string `xml:"title"`
	DateCreated string `xml:"dateCreated,omitempty"`
}

type opmlDoc struct {
	XMLName xml.Name `xml:"opml"`
	Version string   `xml:"version,attr"`
	Head    opmlHead `xml:"head"`
	Body    struct {
		Outlines []opmlOutline `xml:"outline"`
	} `xml:"body"`
}

// ExportOPML renders the given feed URLs as an OPML 2.0 document.
func ExportOPML(urls []string) string {
	doc := opmlDoc{
		Version: "2.0",
		Head: opmlHead{
			Title:       "Teletext News Feeds",
			DateCreated: time.Now().UTC().Format("Mon, 02 Jan 2006 15:04:05 +0000"),
		},
	}
	for _, url := range urls {
		doc.Body.Outlines = append(doc.Body.Outlines, opmlOutline{
			Type:   "rss",
			Text:   url,
			XMLURL: url,
		})
	}

	out, err := xml.Marshal(doc)
	if err != nil {
		return ""
	}
	return xml.Header + string(out)
}

// ImportOPML extracts feed URLs from OPML content. Outlines may be nested
// arbitrarily and may carry the feed URL as xmlUrl, xmlurl or url. Malformed
// XML yields an empty list rather than an error.
func ImportOPML(content string) []string {
	var doc opmlDoc
	if err := xml.Unmarshal([]byte(content), &doc); err != nil {
		return nil
	}

	var urls []string
	var walk func(outlines []opmlOutline)
	walk = func(outlines []opmlOutline) {
		for _, o := range outlines {
			url := o.XMLURL
			if url == "" {
				url = o.XMLURLLC
			}
			if url == "" {
				url = o.URL
			}
			if url = strings.TrimSpace(url); url != "" {
				urls = append(urls, url)
			}
			walk(o.Outlines)
		}
	}
	walk(doc.Body.Outlines)
	return urls
}
