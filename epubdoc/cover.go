package epubdoc

import (
	"bytes"
	"image"

	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"

	_ "golang.org/x/image/webp"
)

// Cover returns the package's declared cover image, or nil when none
// is declared. The EPUB 3 "cover-image" manifest property wins over
// the EPUB 2 cover meta. Dimensions come from decoding the image
// header; an undecodable image still yields Href and MediaType.
func (r *Reader) Cover() *CoverImage {
	item := r.coverItem()
	if item == nil {
		return nil
	}

	cover := &CoverImage{Href: item.Href, MediaType: item.MediaType}

	data, err := r.readFile(r.resolveHref(item.Href))
	if err != nil {
		r.logger.Debug("cover image unreadable", "href", item.Href, "error", err)
		return cover
	}
	cfg, format, err := image.DecodeConfig(bytes.NewReader(data))
	if err != nil {
		r.logger.Debug("cover image undecodable", "href", item.Href, "error", err)
		return cover
	}
	cover.Width = cfg.Width
	cover.Height = cfg.Height
	cover.Format = format
	return cover
}

// CoverData returns the raw bytes of the cover image, or nil.
func (r *Reader) CoverData() []byte {
	item := r.coverItem()
	if item == nil {
		return nil
	}
	data, err := r.readFile(r.resolveHref(item.Href))
	if err != nil {
		return nil
	}
	return data
}

func (r *Reader) coverItem() *ManifestItem {
	for _, item := range r.pkg.Manifest {
		for _, p := range item.Properties {
			if p == "cover-image" {
				it := item
				return &it
			}
		}
	}
	if r.pkg.CoverID != "" {
		if item, ok := r.pkg.Manifest[r.pkg.CoverID]; ok {
			return &item
		}
	}
	return nil
}
