package server

import (
	"context"
	"os"
)

type HealthChecker interface {
	Healthy(ctx context.Context) bool
}

// FolderHealthChecker reports healthy while its folder exists and can be listed.
type FolderHealthChecker struct {
	Path string
}

func NewFolderHealthChecker(path string) *FolderHealthChecker {
	return &FolderHealthChecker{Path: path}
}

func (hc *FolderHealthChecker) Healthy(ctx context.Context) bool {
	if ctx.Err() != nil {
		return false
	}
	_, err := os.ReadDir(hc.Path)
	return err == nil
}
