package web

import (
	"crypto/sha256"
	"encoding/hex"
	"os"
	"path/filepath"
	"strconv"
	"strings"
)

func formatScore(value float64) string {
	return strconv.FormatFloat(value, 'f', -1, 64)
}

// AssetPath appends a content hash to a /static/ path so browsers pick up rebuilt bundles.
func AssetPath(staticDir, path string) string {
	if path == "" || !strings.HasPrefix(path, "/static/") {
		return path
	}
	trimmed := strings.TrimPrefix(path, "/static/")
	data, err := os.ReadFile(filepath.Join(staticDir, trimmed))
	if err != nil {
		return path
	}
	sum := sha256.Sum256(data)
	return appendAssetVersion(path, hex.EncodeToString(sum[:8]))
}

func appendAssetVersion(path string, hash string) string {
	if hash == "" {
		return path
	}
	if strings.Contains(path, "?") {
		return path + "&v=" + hash
	}
	return path + "?v=" + hash
}
