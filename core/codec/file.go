package codec

import (
	"bufio"
	"fmt"
	"io"
	"os"
)

// ExportToFile writes obj on the file at path, creating or truncating it.
func ExportToFile(path string, obj io.WriterTo) (err error) {

	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("cannot ExportToFile: %w", err)
	}

	defer func() {
		if cerr := f.Close(); err == nil && cerr != nil {
			err = fmt.Errorf("cannot ExportToFile: %w", cerr)
		}
	}()

	w := bufio.NewWriter(f)

	if _, err = obj.WriteTo(w); err != nil {
		return fmt.Errorf("cannot ExportToFile: %w", err)
	}

	if err = w.Flush(); err != nil {
		return fmt.Errorf("cannot ExportToFile: %w", err)
	}

	return
}

// ImportFromFile reads obj from the file at path.
func ImportFromFile(path string, obj io.ReaderFrom) (err error) {

	f, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("cannot ImportFromFile: %w", err)
	}

	defer f.Close()

	if _, err = obj.ReadFrom(bufio.NewReader(f)); err != nil {
		return fmt.Errorf("cannot ImportFromFile: %w", err)
	}

	return
}
