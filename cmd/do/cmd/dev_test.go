package cmd

import (
	"slices"
	"testing"
)

func TestAirArgsBuildServer(t *testing.T) {
	args := airArgs()

	flag := func(name string) string {
		i := slices.Index(args, name)
		if i < 0 || i+1 >= len(args) {
			t.Fatalf("air flag %s missing", name)
		}
		return args[i+1]
	}

	if got := flag("-build.cmd"); got != "go build -o ./tmp/tagbox ./cmd/server" {
		t.Errorf("-build.cmd = %q", got)
	}
	if got := flag("-build.exclude_dir"); got != "bin,tmp,data,_examples" {
		t.Errorf("-build.exclude_dir = %q", got)
	}
	if got := flag("-build.include_ext"); got != "go,sql" {
		t.Errorf("-build.include_ext = %q", got)
	}
}
