package model

import (
	"encoding/json"
	"fmt"
	"os"
)

// Metadata describes the labels that accompany a classifier model. Shapes
// are read from the model itself, so only the class names are kept.
type Metadata struct {
	Classes []string `json:"classes"`
}

type PredictionRequest struct {
	Image []float32 `json:"image"`
}

// LoadMetadata reads a labels file. Both a metadata object and a bare JSON
// array of class names are accepted. An empty path yields empty metadata.
func LoadMetadata(path string) (Metadata, error) {
	var metadata Metadata
	if path == "" {
		return metadata, nil
	}

	metaFile, err := os.ReadFile(path)
	if err != nil {
		return metadata, fmt.Errorf("failed to read metadata: %w", err)
	}

	if err := json.Unmarshal(metaFile, &metadata.Classes); err == nil {
		return metadata, nil
	}
	if err := json.Unmarshal(metaFile, &metadata); err != nil {
		return metadata, fmt.Errorf("failed to parse metadata: %w", err)
	}
	return metadata, nil
}
