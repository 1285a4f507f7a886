package steg

import "github.com/ironsheep/sneakyimage/internal/imaging"

// EncodeFile hides message in the image at inputPath and writes the result
// to outputPath.
//
// The input is loaded into a private grid; on any failure before the save
// (capacity, unsupported output format) outputPath is not created.
func EncodeFile(inputPath, message, outputPath string) error {
	return EncodeBytesFile(inputPath, []byte(message), outputPath)
}

// EncodeBytesFile is EncodeFile for an arbitrary byte payload.
func EncodeBytesFile(inputPath string, payload []byte, outputPath string) error {
	if err := imaging.CheckOutputFormat(outputPath); err != nil {
		return &ImageAccessError{Op: "save", Path: outputPath, Err: err}
	}

	g, err := imaging.LoadGrid(inputPath)
	if err != nil {
		return &ImageAccessError{Op: "load", Path: inputPath, Err: err}
	}

	if err := Embed(g, payload); err != nil {
		return err
	}

	if err := imaging.SaveGrid(g, outputPath); err != nil {
		return &ImageAccessError{Op: "save", Path: outputPath, Err: err}
	}
	return nil
}

// DecodeFile recovers the text hidden in the image at inputPath.
func DecodeFile(inputPath string) (string, error) {
	g, err := imaging.LoadGrid(inputPath)
	if err != nil {
		return "", &ImageAccessError{Op: "load", Path: inputPath, Err: err}
	}
	return Extract(g)
}

// DecodeBytesFile recovers the raw payload hidden in the image at inputPath.
func DecodeBytesFile(inputPath string) ([]byte, error) {
	g, err := imaging.LoadGrid(inputPath)
	if err != nil {
		return nil, &ImageAccessError{Op: "load", Path: inputPath, Err: err}
	}
	return ExtractBytes(g)
}
