// SPDX-License-Identifier: MPL-2.0

package artifact

import "testing"

func TestKinds_CascadeOrder(t *testing.T) {
	t.Parallel()

	want := []string{
		".python-version",
		"runtime.txt",
		"pyproject.toml",
		"setup.py",
		"setup.cfg",
		"tox.ini",
		"Pipfile",
		"requirements.txt",
	}

	got := Kinds()
	if len(got) != len(want) {
		t.Fatalf("Kinds() returned %d kinds, want %d", len(got), len(want))
	}
	for i, k := range got {
		if k.Filename() != want[i] {
			t.Errorf("Kinds()[%d].Filename() = %q, want %q", i, k.Filename(), want[i])
		}
		if k.Rank() != i {
			t.Errorf("Kinds()[%d].Rank() = %d, want %d", i, k.Rank(), i)
		}
	}
}

func TestKinds_ReturnsCopy(t *testing.T) {
	t.Parallel()

	first := Kinds()
	first[0], first[1] = first[1], first[0]

	if Kinds()[0] != KindPinFile {
		t.Error("mutating the Kinds() result changed the cascade order")
	}
}

func TestKindByName(t *testing.T) {
	t.Parallel()

	for _, k := range Kinds() {
		got, ok := KindByName(k.String())
		if !ok || got != k {
			t.Errorf("KindByName(%q) = %v, %v; want %v, true", k.String(), got, ok, k)
		}
	}

	if _, ok := KindByName("conda-env"); ok {
		t.Error("KindByName should not recognize unknown names")
	}
}

func TestKind_InvalidString(t *testing.T) {
	t.Parallel()

	if got := Kind(42).String(); got != "kind(42)" {
		t.Errorf("Kind(42).String() = %q", got)
	}
	if got := Kind(-1).Filename(); got != "" {
		t.Errorf("Kind(-1).Filename() = %q, want empty", got)
	}
}
