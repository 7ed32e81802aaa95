// Package artifact persists a fitted pipeline together with its training
// metadata as one self-contained file.
//
// File layout: the 8-byte magic "FRAUDPIP", a big-endian uint16 format
// version, then a zstd-compressed gob encoding of Artifact.
package artifact

import (
	"bufio"
	"bytes"
	"encoding/binary"
	"encoding/gob"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/klauspost/compress/zstd"

	"github.com/BishnuMukherjee123/credit-card-default-prediction/pkg/pipeline"
)

const (
	Magic = "FRAUDPIP"

	// FormatVersion changes whenever the encoded layout changes incompatibly.
	FormatVersion uint16 = 1
)

// ErrSerialization covers missing, unreadable, foreign or incomplete
// artifact files.
var ErrSerialization = errors.New("artifact: serialization")

// ParamScore is the cross-validated score of one hyperparameter combination.
type ParamScore struct {
	Params    map[string]int `json:"params"`
	MeanScore float64        `json:"mean_test_score"`
	StdScore  float64        `json:"std_test_score"`
}

// Metadata records how the pipeline was trained.
type Metadata struct {
	TrainedAt     string         `json:"trained_at"`
	BestParams    map[string]int `json:"best_params"`
	BestScore     float64        `json:"best_score"`
	CVFolds       int            `json:"cv_folds"`
	Seed          int64          `json:"seed"`
	TrainRows     int            `json:"train_rows"`
	SchemaVersion string         `json:"schema_version"`
	Features      []string       `json:"features"`
	CVResults     []ParamScore   `json:"cv_results,omitempty"`
}

// Artifact is the unit exchanged between training, evaluation and serving.
type Artifact struct {
	Pipeline *pipeline.Pipeline
	Metadata Metadata
}

// Validate reports whether a is complete enough to be used for prediction.
func (a *Artifact) Validate() error {
	switch {
	case a.Pipeline == nil:
		return fmt.Errorf("%w: missing pipeline", ErrSerialization)
	case !a.Pipeline.Fitted:
		return fmt.Errorf("%w: pipeline is not fitted", ErrSerialization)
	case a.Pipeline.Features == nil || a.Pipeline.Scaler == nil || a.Pipeline.Classifier == nil:
		return fmt.Errorf("%w: pipeline is missing a stage", ErrSerialization)
	case len(a.Pipeline.Classifier.Trees) == 0:
		return fmt.Errorf("%w: classifier has no trees", ErrSerialization)
	case a.Metadata.TrainedAt == "":
		return fmt.Errorf("%w: missing trained_at", ErrSerialization)
	case a.Metadata.BestParams == nil:
		return fmt.Errorf("%w: missing best_params", ErrSerialization)
	}
	return nil
}

// CheckSchema fails unless the pipeline was trained on schema s.
func (a *Artifact) CheckSchema(s pipeline.Schema) error {
	got := a.Pipeline.Schema
	if got.Equal(s) {
		return nil
	}
	if got.NumFeatures() != s.NumFeatures() {
		return &pipeline.MismatchError{Expected: s.NumFeatures(), Got: got.NumFeatures()}
	}
	if err := s.CheckColumns(got.FeatureNames); err != nil {
		return err
	}
	return fmt.Errorf("%w: artifact schema %s/%s, expected %s/%s",
		pipeline.ErrSchemaMismatch, got.Version, got.Target, s.Version, s.Target)
}

// Encode writes a to w.
func Encode(w io.Writer, a *Artifact) error {
	if err := a.Validate(); err != nil {
		return err
	}
	var header [len(Magic) + 2]byte
	copy(header[:], Magic)
	binary.BigEndian.PutUint16(header[len(Magic):], FormatVersion)
	if _, err := w.Write(header[:]); err != nil {
		return err
	}

	zw, err := zstd.NewWriter(w)
	if err != nil {
		return err
	}
	if err := gob.NewEncoder(zw).Encode(a); err != nil {
		zw.Close()
		return fmt.Errorf("artifact: encode: %w", err)
	}
	return zw.Close()
}

// Decode reads an artifact written by Encode.
func Decode(r io.Reader) (*Artifact, error) {
	var header [len(Magic) + 2]byte
	if _, err := io.ReadFull(r, header[:]); err != nil {
		return nil, fmt.Errorf("%w: read header: %v", ErrSerialization, err)
	}
	if !bytes.Equal(header[:len(Magic)], []byte(Magic)) {
		return nil, fmt.Errorf("%w: not a pipeline artifact", ErrSerialization)
	}
	if v := binary.BigEndian.Uint16(header[len(Magic):]); v != FormatVersion {
		return nil, fmt.Errorf("%w: unsupported format version %d (want %d)", ErrSerialization, v, FormatVersion)
	}

	zr, err := zstd.NewReader(r)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrSerialization, err)
	}
	defer zr.Close()

	var a Artifact
	if err := gob.NewDecoder(zr).Decode(&a); err != nil {
		return nil, fmt.Errorf("%w: decode: %v", ErrSerialization, err)
	}
	if err := a.Validate(); err != nil {
		return nil, err
	}
	return &a, nil
}

// Save writes a to path, replacing any existing file. The file is written
// under a temporary name and renamed, so a failed save never leaves a
// partial artifact behind.
func Save(path string, a *Artifact) (err error) {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return err
	}
	tmp, err := os.CreateTemp(dir, ".artifact-*")
	if err != nil {
		return err
	}
	defer func() {
		if err != nil {
			tmp.Close()
			os.Remove(tmp.Name())
		}
	}()

	bw := bufio.NewWriter(tmp)
	if err = Encode(bw, a); err != nil {
		return err
	}
	if err = bw.Flush(); err != nil {
		return err
	}
	if err = tmp.Sync(); err != nil {
		return err
	}
	if err = tmp.Close(); err != nil {
		return err
	}
	return os.Rename(tmp.Name(), path)
}

// Load reads and validates the artifact at path.
func Load(path string) (*Artifact, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrSerialization, err)
	}
	defer f.Close()

	a, err := Decode(bufio.NewReader(f))
	if err != nil {
		return nil, fmt.Errorf("load %s: %w", path, err)
	}
	return a, nil
}
