// Package export writes generated sequences to DICOM files and records
// them in a CSV manifest.
package export

import (
	"fmt"
	"image"
	"os"

	"github.com/mrsinham/digitforge/internal/util"
	"github.com/suyashkumar/dicom"
	"github.com/suyashkumar/dicom/pkg/frame"
	"github.com/suyashkumar/dicom/pkg/tag"
)

const (
	// secondaryCaptureSOPClass is Secondary Capture Image Storage.
	secondaryCaptureSOPClass = "1.2.840.10008.5.1.4.1.1.7"
	explicitVRLittleEndian   = "1.2.840.10008.1.2.1"
)

// Metadata describes one exported sequence.
type Metadata struct {
	// Run identifies the dataset. Images of one run share study and
	// series UIDs.
	Run      string
	Instance int
	Digits   []int
	Gaps     []int
}

// WriteDICOM stores img as an 8-bit MONOCHROME2 secondary capture image.
func WriteDICOM(path string, img *image.Gray, meta Metadata) error {
	b := img.Bounds()
	width, height := b.Dx(), b.Dy()
	if width == 0 || height == 0 {
		return fmt.Errorf("empty image")
	}

	nativeFrame := frame.NewNativeFrame[uint8](8, height, width, width*height, 1)
	for y := 0; y < height; y++ {
		off := img.PixOffset(b.Min.X, b.Min.Y+y)
		copy(nativeFrame.RawData[y*width:(y+1)*width], img.Pix[off:off+width])
	}
	pixelDataInfo := dicom.PixelDataInfo{
		Frames: []*frame.Frame{
			{
				Encapsulated: false,
				NativeData:   nativeFrame,
			},
		},
	}

	studyUID := util.DeterministicUID(meta.Run + "_study")
	seriesUID := util.DeterministicUID(meta.Run + "_series")
	sopInstanceUID := util.DeterministicUID(fmt.Sprintf("%s_instance_%d", meta.Run, meta.Instance))
	digits := util.FormatDigits(meta.Digits)

	elements := []*dicom.Element{
		mustNewElement(tag.MediaStorageSOPClassUID, []string{secondaryCaptureSOPClass}),
		mustNewElement(tag.MediaStorageSOPInstanceUID, []string{sopInstanceUID}),
		mustNewElement(tag.TransferSyntaxUID, []string{explicitVRLittleEndian}),
		mustNewElement(tag.PatientName, []string{"DIGITFORGE"}),
		mustNewElement(tag.PatientID, []string{"DIGITS"}),
		mustNewElement(tag.StudyInstanceUID, []string{studyUID}),
		mustNewElement(tag.StudyDescription, []string{"Digit sequences"}),
		mustNewElement(tag.SeriesInstanceUID, []string{seriesUID}),
		mustNewElement(tag.SeriesNumber, []string{"1"}),
		mustNewElement(tag.SeriesDescription, []string{digits}),
		mustNewElement(tag.Modality, []string{"OT"}),
		mustNewElement(tag.SOPClassUID, []string{secondaryCaptureSOPClass}),
		mustNewElement(tag.SOPInstanceUID, []string{sopInstanceUID}),
		mustNewElement(tag.InstanceNumber, []string{fmt.Sprintf("%d", meta.Instance)}),
		mustNewElement(tag.Rows, []int{height}),
		mustNewElement(tag.Columns, []int{width}),
		mustNewElement(tag.BitsAllocated, []int{8}),
		mustNewElement(tag.BitsStored, []int{8}),
		mustNewElement(tag.HighBit, []int{7}),
		mustNewElement(tag.PixelRepresentation, []int{0}),
		mustNewElement(tag.SamplesPerPixel, []int{1}),
		mustNewElement(tag.PhotometricInterpretation, []string{"MONOCHROME2"}),
		mustNewElement(tag.PixelData, pixelDataInfo),
	}

	f, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := dicom.Write(f, dicom.Dataset{Elements: elements}); err != nil {
		_ = f.Close()
		return fmt.Errorf("write %s: %w", path, err)
	}
	return f.Close()
}

// mustNewElement creates a DICOM element, panicking on error.
// Only used with static tag/value pairs that are known valid.
func mustNewElement(t tag.Tag, value interface{}) *dicom.Element {
	elem, err := dicom.NewElement(t, value)
	if err != nil {
		panic(fmt.Sprintf("failed to create element %v: %v", t, err))
	}
	return elem
}
