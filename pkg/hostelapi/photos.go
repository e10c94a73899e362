package hostelapi

import "strings"

// PhotoResolver turns stored photo paths into absolute URLs under the storage host.
type PhotoResolver struct {
	StorageURL  string
	Placeholder string
}

func (p PhotoResolver) URL(path string) string {
	clean := strings.TrimLeft(strings.TrimSpace(path), "/")
	if clean == "" {
		return p.Placeholder
	}
	if strings.HasPrefix(clean, "http://") || strings.HasPrefix(clean, "https://") {
		return clean
	}
	base := strings.TrimRight(p.StorageURL, "/")
	if strings.Contains(clean, "rooms/") || strings.Contains(clean, "storage/") {
		if !strings.HasPrefix(clean, "storage/") {
			clean = "storage/" + clean
		}
		return base + "/" + clean
	}
	return base + "/storage/rooms/" + clean
}

// Resolve maps every path; an empty list yields just the placeholder.
func (p PhotoResolver) Resolve(paths []string) []string {
	out := make([]string, 0, len(paths))
	for _, path := range paths {
		if strings.TrimSpace(path) == "" {
			continue
		}
		out = append(out, p.URL(path))
	}
	if len(out) == 0 && p.Placeholder != "" {
		out = append(out, p.Placeholder)
	}
	return out
}
