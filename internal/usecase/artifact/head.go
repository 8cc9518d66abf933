package artifact

import (
	"os"
	"path/filepath"
	"strings"
)

// HeadFunc resolves the current source revision. Injectable so tests and
// non-git deployments can supply their own.
type HeadFunc func() string

// SourceHead reads the current revision: BRIEFLINE_SOURCE_HEAD when set
// (containerized deployments bake it in at build time), otherwise the
// repository's .git/HEAD resolved one level of indirection, otherwise
// "unknown".
func SourceHead() string {
	if v := os.Getenv("BRIEFLINE_SOURCE_HEAD"); v != "" {
		return shorten(v)
	}
	return shorten(gitHead("."))
}

func gitHead(root string) string {
	data, err := os.ReadFile(filepath.Join(root, ".git", "HEAD"))
	if err != nil {
		return "unknown"
	}
	head := strings.TrimSpace(string(data))
	if ref, ok := strings.CutPrefix(head, "ref: "); ok {
		data, err = os.ReadFile(filepath.Join(root, ".git", filepath.FromSlash(ref)))
		if err != nil {
			return "unknown"
		}
		head = strings.TrimSpace(string(data))
	}
	if head == "" {
		return "unknown"
	}
	return head
}

func shorten(rev string) string {
	if len(rev) > 12 {
		return rev[:12]
	}
	return rev
}
