package epubdoc

import (
	"archive/zip"
	"encoding/xml"
	"errors"
	"strings"
)

// ErrDRMProtected signals an archive whose content is encrypted and
// therefore not readable.
var ErrDRMProtected = errors.New("epub: content is DRM protected")

// Font obfuscation algorithms are not DRM; their presence in
// encryption.xml is allowed.
var fontObfuscationAlgorithms = map[string]bool{
	"http://www.idpf.org/2008/embedding": true,
	"http://ns.adobe.com/pdf/enc#RC":     true,
}

// checkForDRM rejects archives that carry Adobe ADEPT rights or an
// encryption.xml encrypting anything beyond embedded fonts.
func checkForDRM(zr *zip.Reader) error {
	var encFile *zip.File
	for _, f := range zr.File {
		switch f.Name {
		case "META-INF/rights.xml":
			return ErrDRMProtected
		case "META-INF/encryption.xml":
			encFile = f
		}
	}
	if encFile == nil {
		return nil
	}

	data, err := readZipFile(encFile)
	if err != nil {
		// Unreadable encryption manifest: assume the worst.
		return ErrDRMProtected
	}

	var enc struct {
		XMLName xml.Name `xml:"encryption"`
		Data    []struct {
			Method struct {
				Algorithm string `xml:"Algorithm,attr"`
			} `xml:"EncryptionMethod"`
			Reference struct {
				URI string `xml:"URI,attr"`
			} `xml:"CipherData>CipherReference"`
		} `xml:"EncryptedData"`
	}
	if err := xml.Unmarshal(data, &enc); err != nil {
		return ErrDRMProtected
	}

	for _, d := range enc.Data {
		if fontObfuscationAlgorithms[d.Method.Algorithm] {
			continue
		}
		uri := strings.ToLower(d.Reference.URI)
		if strings.HasSuffix(uri, ".ttf") || strings.HasSuffix(uri, ".otf") || strings.HasSuffix(uri, ".woff") || strings.HasSuffix(uri, ".woff2") {
			continue
		}
		return ErrDRMProtected
	}
	return nil
}
