package metrics

import (
	"go/parser"
	"go/token"
	"io/fs"
	"path/filepath"
	"strconv"
	"strings"
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
)

const apiPkg = "github.com/tweetfi/tweetfi-service/internal/api"

// The core and its adapters record metrics here and must never reach up into
// the HTTP layer.
func TestCoreAndAdaptersDoNotImportAPI(t *testing.T) {
	for _, root := range []string{"../../core", "../../infrastructure"} {
		err := filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
			if err != nil || d.IsDir() || !strings.HasSuffix(path, ".go") {
				return err
			}
			f, err := parser.ParseFile(token.NewFileSet(), path, nil, parser.ImportsOnly)
			if err != nil {
				return err
			}
			for _, imp := range f.Imports {
				p, _ := strconv.Unquote(imp.Path.Value)
				if p == apiPkg || strings.HasPrefix(p, apiPkg+"/") {
					t.Errorf("%s imports %s", path, p)
				}
			}
			return nil
		})
		if err != nil {
			t.Fatalf("walk %s: %v", root, err)
		}
	}
}

func TestActionsTotal_Labels(t *testing.T) {
	c := ActionsTotal.WithLabelValues("like", "success")
	before := testutil.ToFloat64(c)
	c.Inc()
	if got := testutil.ToFloat64(c); got != before+1 {
		t.Fatalf("expected %v, got %v", before+1, got)
	}
}
