package clip

import (
	"encoding/base64"
	"fmt"
	"os"
	"path/filepath"

	"github.com/google/uuid"
)

// StageCookies decodes a base64-encoded cookie-jar payload and writes it to
// a uniquely named file under dir, readable only by the owning process.
// The caller owns the returned path and must delete it when the request
// finishes; staging never deletes on its own.
func StageCookies(dir, b64 string) (string, error) {
	data, err := base64.StdEncoding.DecodeString(b64)
	if err != nil {
		return "", fmt.Errorf("decode cookies payload: %w", err)
	}

	if err := os.MkdirAll(dir, 0o700); err != nil {
		return "", fmt.Errorf("create cookie dir: %w", err)
	}

	path := filepath.Join(dir, "cookies-"+uuid.New().String()+".txt")
	if err := os.WriteFile(path, data, 0o600); err != nil {
		return "", fmt.Errorf("write cookie file: %w", err)
	}
	return path, nil
}
