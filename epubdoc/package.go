package epubdoc

import (
	"archive/zip"
	"encoding/xml"
	"errors"
	"path"
	"strings"
)

// Package-document errors.
var (
	ErrNoContainer = errors.New("epub: missing META-INF/container.xml")
	ErrNoOPF       = errors.New("epub: missing package document (OPF)")
	ErrInvalidOPF  = errors.New("epub: invalid package document")
	ErrEmptySpine  = errors.New("epub: no content in spine")
)

// ocfContainer mirrors META-INF/container.xml, which names the OPF.
type ocfContainer struct {
	XMLName   xml.Name `xml:"container"`
	Rootfiles []struct {
		FullPath  string `xml:"full-path,attr"`
		MediaType string `xml:"media-type,attr"`
	} `xml:"rootfiles>rootfile"`
}

// parseContainer returns the archive path of the OPF package document.
func parseContainer(zr *zip.Reader) (string, error) {
	var cf *zip.File
	for _, f := range zr.File {
		if f.Name == "META-INF/container.xml" {
			cf = f
			break
		}
	}
	if cf == nil {
		return "", ErrNoContainer
	}

	data, err := readZipFile(cf)
	if err != nil {
		return "", err
	}

	var c ocfContainer
	if err := xml.Unmarshal(data, &c); err != nil {
		return "", ErrNoContainer
	}

	for _, rf := range c.Rootfiles {
		if rf.FullPath != "" && (rf.MediaType == "application/oebps-package+xml" || rf.MediaType == "") {
			return rf.FullPath, nil
		}
	}
	if len(c.Rootfiles) > 0 && c.Rootfiles[0].FullPath != "" {
		return c.Rootfiles[0].FullPath, nil
	}
	return "", ErrNoOPF
}

// opfDocument mirrors the OPF package document.
type opfDocument struct {
	XMLName  xml.Name `xml:"package"`
	Version  string   `xml:"version,attr"`
	Metadata struct {
		Title       []string `xml:"title"`
		Creator     []string `xml:"creator"`
		Language    []string `xml:"language"`
		Identifier  []string `xml:"identifier"`
		Publisher   []string `xml:"publisher"`
		Description []string `xml:"description"`
		Meta        []struct {
			Name    string `xml:"name,attr"`
			Content string `xml:"content,attr"`
		} `xml:"meta"`
	} `xml:"metadata"`
	Manifest struct {
		Items []struct {
			ID         string `xml:"id,attr"`
			Href       string `xml:"href,attr"`
			MediaType  string `xml:"media-type,attr"`
			Properties string `xml:"properties,attr"`
		} `xml:"item"`
	} `xml:"manifest"`
	Spine struct {
		Toc      string `xml:"toc,attr"` // NCX reference, EPUB 2
		ItemRefs []struct {
			IDRef  string `xml:"idref,attr"`
			Linear string `xml:"linear,attr"`
		} `xml:"itemref"`
	} `xml:"spine"`
}

// parsePackage parses the OPF and returns the Package plus the base
// directory content hrefs resolve against.
func parsePackage(zr *zip.Reader, opfPath string) (*Package, string, error) {
	var opfFile *zip.File
	for _, f := range zr.File {
		if f.Name == opfPath {
			opfFile = f
			break
		}
	}
	if opfFile == nil {
		return nil, "", ErrNoOPF
	}

	baseDir := path.Dir(opfPath)
	if baseDir == "." {
		baseDir = ""
	}

	data, err := readZipFile(opfFile)
	if err != nil {
		return nil, "", err
	}

	var opf opfDocument
	if err := xml.Unmarshal(data, &opf); err != nil {
		return nil, "", ErrInvalidOPF
	}

	pkg := &Package{
		Version:  opf.Version,
		Metadata: convertMetadata(&opf),
		Manifest: make(map[string]ManifestItem, len(opf.Manifest.Items)),
	}

	for _, it := range opf.Manifest.Items {
		mi := ManifestItem{ID: it.ID, Href: it.Href, MediaType: it.MediaType}
		if it.Properties != "" {
			mi.Properties = strings.Fields(it.Properties)
		}
		pkg.Manifest[it.ID] = mi
	}

	for _, ref := range opf.Spine.ItemRefs {
		pkg.Spine = append(pkg.Spine, SpineItem{
			IDRef:  ref.IDRef,
			Linear: ref.Linear != "no",
		})
	}
	if len(pkg.Spine) == 0 {
		return nil, "", ErrEmptySpine
	}

	// EPUB 2 declares the cover indirectly through a named meta.
	for _, m := range opf.Metadata.Meta {
		if m.Name == "cover" && m.Content != "" {
			pkg.CoverID = m.Content
		}
	}

	return pkg, baseDir, nil
}

func convertMetadata(opf *opfDocument) Metadata {
	meta := Metadata{}
	if len(opf.Metadata.Title) > 0 {
		meta.Title = strings.TrimSpace(opf.Metadata.Title[0])
	}
	for _, c := range opf.Metadata.Creator {
		if s := strings.TrimSpace(c); s != "" {
			meta.Creators = append(meta.Creators, s)
		}
	}
	if len(opf.Metadata.Language) > 0 {
		meta.Language = strings.TrimSpace(opf.Metadata.Language[0])
	}
	if len(opf.Metadata.Identifier) > 0 {
		meta.Identifier = strings.TrimSpace(opf.Metadata.Identifier[0])
	}
	if len(opf.Metadata.Publisher) > 0 {
		meta.Publisher = strings.TrimSpace(opf.Metadata.Publisher[0])
	}
	if len(opf.Metadata.Description) > 0 {
		meta.Description = strings.TrimSpace(opf.Metadata.Description[0])
	}
	return meta
}
