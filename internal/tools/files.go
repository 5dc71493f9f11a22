package tools

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
)

// protectedPaths are prefixes that delete_file_or_folder refuses to touch.
var protectedPaths = []string{
	"/bin", "/boot", "/etc", "/lib", "/proc", "/sbin", "/sys", "/usr", "/var",
}

// desktopPath returns the user's desktop directory, creating it when absent.
func desktopPath() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("resolve home: %w", err)
	}
	desktop := filepath.Join(home, "Desktop")
	if _, err := os.Stat(desktop); os.IsNotExist(err) {
		if err := os.MkdirAll(desktop, 0o755); err != nil {
			return "", fmt.Errorf("create desktop dir: %w", err)
		}
	}
	return desktop, nil
}

// documentsPath returns the user's documents directory.
func documentsPath() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("resolve home: %w", err)
	}
	return filepath.Join(home, "Documents"), nil
}

// resolveFolder joins path and name, mapping a bare "desktop" prefix onto
// the real desktop directory the way users phrase it.
func resolveFolder(path, name string) (string, error) {
	full := path
	if name != "" {
		full = filepath.Join(path, name)
	}
	if !filepath.IsAbs(full) && strings.Contains(strings.ToLower(full), "desktop") {
		desktop, err := desktopPath()
		if err != nil {
			return "", err
		}
		leaf := name
		if leaf == "" {
			leaf = filepath.Base(full)
		}
		full = filepath.Join(desktop, leaf)
	}
	return full, nil
}

func createFolder(path, name string) (string, error) {
	full, err := resolveFolder(path, name)
	if err != nil {
		return "", err
	}
	if err := os.MkdirAll(full, 0o755); err != nil {
		return "", fmt.Errorf("create folder: %w", err)
	}
	return fmt.Sprintf("Created folder: %s", full), nil
}

func deletePath(path string) (string, error) {
	if path == "" {
		return "", fmt.Errorf("no path given")
	}
	abs, err := filepath.Abs(path)
	if err != nil {
		return "", fmt.Errorf("resolve path: %w", err)
	}
	if abs == "/" {
		return "", fmt.Errorf("refusing to delete system path: %s", abs)
	}
	for _, protected := range protectedPaths {
		if abs == protected || strings.HasPrefix(abs, protected+string(filepath.Separator)) {
			return "", fmt.Errorf("refusing to delete system path: %s", abs)
		}
	}

	info, err := os.Stat(abs)
	if os.IsNotExist(err) {
		return "", fmt.Errorf("path not found: %s", abs)
	}
	if err != nil {
		return "", err
	}
	if info.IsDir() {
		if err := os.RemoveAll(abs); err != nil {
			return "", fmt.Errorf("delete folder: %w", err)
		}
		return fmt.Sprintf("Deleted folder: %s", abs), nil
	}
	if err := os.Remove(abs); err != nil {
		return "", fmt.Errorf("delete file: %w", err)
	}
	return fmt.Sprintf("Deleted file: %s", abs), nil
}

func listDirectory(path string) (string, error) {
	if path == "" {
		path = "."
	}
	abs, err := filepath.Abs(path)
	if err != nil {
		return "", fmt.Errorf("resolve path: %w", err)
	}
	entries, err := os.ReadDir(abs)
	if err != nil {
		return "", fmt.Errorf("list directory: %w", err)
	}
	if len(entries) == 0 {
		return fmt.Sprintf("Directory is empty: %s", abs), nil
	}

	sort.Slice(entries, func(i, j int) bool { return entries[i].Name() < entries[j].Name() })
	lines := []string{fmt.Sprintf("Contents of %s:", abs)}
	for _, e := range entries {
		if e.IsDir() {
			lines = append(lines, fmt.Sprintf("  [DIR]  %s", e.Name()))
			continue
		}
		size := int64(0)
		if info, err := e.Info(); err == nil {
			size = info.Size()
		}
		lines = append(lines, fmt.Sprintf("  [FILE] %s (%d bytes)", e.Name(), size))
	}
	return strings.Join(lines, "\n"), nil
}

func writeFile(path, content string) (string, error) {
	if path == "" {
		return "", fmt.Errorf("no path given")
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return "", fmt.Errorf("create parent dir: %w", err)
	}
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		return "", fmt.Errorf("write file: %w", err)
	}
	return fmt.Sprintf("Wrote %d bytes to %s", len(content), path), nil
}

func readFile(path string) (string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return "", fmt.Errorf("read file: %w", err)
	}
	return string(data), nil
}
