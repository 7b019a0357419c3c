package procs

import (
	"reflect"
	"testing"

	"github.com/WKDev/Glide/internal/platform"
)

type staticLister []platform.Window

func (l staticLister) ListWindows() ([]platform.Window, error) {
	return l, nil
}

func TestNamesDistinctAndSorted(t *testing.T) {
	lister := staticLister{
		{ID: 1, Process: "Firefox"},
		{ID: 2, Process: "bash"},
		{ID: 3, Process: "firefox"},
		{ID: 4, Process: ""},
		{ID: 5, Process: "Code"},
	}

	got, err := Names(lister)
	if err != nil {
		t.Fatalf("Names failed: %v", err)
	}
	want := []string{"bash", "Code", "Firefox"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("Names = %v, want %v", got, want)
	}
}

func TestNamesEmpty(t *testing.T) {
	got, err := Names(staticLister{})
	if err != nil {
		t.Fatalf("Names failed: %v", err)
	}
	if len(got) != 0 {
		t.Errorf("Names = %v, want empty", got)
	}
}
