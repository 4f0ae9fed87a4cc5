package storage

import (
	"encoding/json"
	"io"
	"os"

	"github.com/san-kum/blobsim/internal/engine"
)

type ExportData struct {
	Meta   RunMetadata         `json:"meta"`
	Frames []engine.FrameStats `json:"frames"`
}

// ExportJSON writes meta and every frame's stats to path, or to stdout when
// path is "-".
func ExportJSON(path string, meta RunMetadata, result *engine.Result) error {
	if path == "-" {
		return encode(os.Stdout, meta, result)
	}
	file, err := os.Create(path)
	if err != nil {
		return err
	}
	defer file.Close()
	return encode(file, meta, result)
}

func encode(w io.Writer, meta RunMetadata, result *engine.Result) error {
	meta.Frames = len(result.Frames)
	meta.Metrics = result.Metrics
	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	return encoder.Encode(ExportData{Meta: meta, Frames: result.Frames})
}
