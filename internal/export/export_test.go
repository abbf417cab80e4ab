package export

import (
	"bytes"
	"image"
	"path/filepath"
	"reflect"
	"strings"
	"testing"

	"github.com/suyashkumar/dicom"
	"github.com/suyashkumar/dicom/pkg/tag"
)

func TestWriteDICOM(t *testing.T) {
	img := image.NewGray(image.Rect(0, 0, 60, 28))
	for i := range img.Pix {
		img.Pix[i] = uint8(i)
	}
	path := filepath.Join(t.TempDir(), "seq.dcm")
	meta := Metadata{Run: "run-1", Instance: 3, Digits: []int{4, 2}, Gaps: []int{4}}

	if err := WriteDICOM(path, img, meta); err != nil {
		t.Fatalf("WriteDICOM() error = %v", err)
	}

	ds, err := dicom.ParseFile(path, nil)
	if err != nil {
		t.Fatalf("Failed to parse DICOM file: %v", err)
	}

	want := []struct {
		tag   tag.Tag
		name  string
		value string
	}{
		{tag.Modality, "Modality", "OT"},
		{tag.PhotometricInterpretation, "PhotometricInterpretation", "MONOCHROME2"},
		{tag.Rows, "Rows", "28"},
		{tag.Columns, "Columns", "60"},
		{tag.SeriesDescription, "SeriesDescription", "42"},
		{tag.InstanceNumber, "InstanceNumber", "3"},
	}
	for _, w := range want {
		elem, err := ds.FindElementByTag(w.tag)
		if err != nil {
			t.Errorf("tag %s should exist, got error: %v", w.name, err)
			continue
		}
		if got := strings.Trim(elem.Value.String(), " []"); got != w.value {
			t.Errorf("%s = %q, want %q", w.name, got, w.value)
		}
	}
	if _, err := ds.FindElementByTag(tag.PixelData); err != nil {
		t.Errorf("PixelData should exist, got error: %v", err)
	}
}

func TestWriteDICOM_DeterministicUIDs(t *testing.T) {
	img := image.NewGray(image.Rect(0, 0, 4, 4))
	dir := t.TempDir()
	uid := func(name string, meta Metadata) (study, sop string) {
		path := filepath.Join(dir, name)
		if err := WriteDICOM(path, img, meta); err != nil {
			t.Fatalf("WriteDICOM() error = %v", err)
		}
		ds, err := dicom.ParseFile(path, nil)
		if err != nil {
			t.Fatalf("Failed to parse DICOM file: %v", err)
		}
		s, _ := ds.FindElementByTag(tag.StudyInstanceUID)
		i, _ := ds.FindElementByTag(tag.SOPInstanceUID)
		return s.Value.String(), i.Value.String()
	}

	study1, sop1 := uid("a.dcm", Metadata{Run: "r", Instance: 1})
	study2, sop2 := uid("b.dcm", Metadata{Run: "r", Instance: 2})
	study3, sop3 := uid("c.dcm", Metadata{Run: "r", Instance: 1})

	if study1 != study2 {
		t.Errorf("images of one run have different studies: %s vs %s", study1, study2)
	}
	if sop1 == sop2 {
		t.Error("different instances share a SOP instance UID")
	}
	if study3 != study1 || sop3 != sop1 {
		t.Error("same run and instance produced different UIDs")
	}
}

func TestWriteDICOM_Empty(t *testing.T) {
	err := WriteDICOM(filepath.Join(t.TempDir(), "x.dcm"), image.NewGray(image.Rect(0, 0, 0, 0)), Metadata{})
	if err == nil {
		t.Error("WriteDICOM() of an empty image succeeded")
	}
}

func TestManifest(t *testing.T) {
	entries := []Entry{
		{File: "seq_000000.png", Digits: []int{3, 1, 4}, Width: 90, Gaps: []int{2, 4}},
		{File: "seq_000001.png", Digits: []int{7}, Width: 28},
	}

	var buf bytes.Buffer
	mw := NewManifestWriter(&buf)
	for _, e := range entries {
		if err := mw.Write(e); err != nil {
			t.Fatalf("Write() error = %v", err)
		}
	}
	if err := mw.Flush(); err != nil {
		t.Fatalf("Flush() error = %v", err)
	}

	wantText := "file,digits,width,gaps\nseq_000000.png,314,90,2 4\nseq_000001.png,7,28,\n"
	if buf.String() != wantText {
		t.Errorf("manifest = %q, want %q", buf.String(), wantText)
	}

	got, err := ReadManifest(&buf)
	if err != nil {
		t.Fatalf("ReadManifest() error = %v", err)
	}
	if !reflect.DeepEqual(got, entries) {
		t.Errorf("ReadManifest() = %+v, want %+v", got, entries)
	}
}

func TestReadManifest_Errors(t *testing.T) {
	tests := map[string]string{
		"bad header": "name,digits,width,gaps\n",
		"bad digits": "file,digits,width,gaps\na.png,x,28,\n",
		"bad width":  "file,digits,width,gaps\na.png,1,w,\n",
		"bad gap":    "file,digits,width,gaps\na.png,12,60,z\n",
		"short row":  "file,digits,width,gaps\na.png,1\n",
	}
	for name, input := range tests {
		t.Run(name, func(t *testing.T) {
			if _, err := ReadManifest(strings.NewReader(input)); err == nil {
				t.Error("ReadManifest() succeeded")
			}
		})
	}
}
