package series

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
)

// ReadAccelerationFile loads a "time x y z" text file
func ReadAccelerationFile(path, subject string) (Acceleration, error) {
	file, err := os.Open(path)
	if err != nil {
		return Acceleration{}, fmt.Errorf("failed to open acceleration file: %w", err)
	}
	defer file.Close()

	acc, err := ReadAcceleration(file, path)
	if err != nil {
		return Acceleration{}, err
	}
	acc.Subject = subject
	return acc, nil
}

// ReadAcceleration parses whitespace-separated "time x y z" rows. Blank
// lines are skipped; there is no header.
func ReadAcceleration(r io.Reader, source string) (Acceleration, error) {
	var acc Acceleration

	err := scanRows(r, source, 4, func(line int, fields []float64) error {
		acc.Samples = append(acc.Samples, Sample{
			Time: fields[0],
			X:    fields[1],
			Y:    fields[2],
			Z:    fields[3],
		})
		return nil
	})
	if err != nil {
		return Acceleration{}, err
	}
	return acc, nil
}

// ReadLabelsFile loads a "time label" text file
func ReadLabelsFile(path, subject string) (Labels, error) {
	file, err := os.Open(path)
	if err != nil {
		return Labels{}, fmt.Errorf("failed to open label file: %w", err)
	}
	defer file.Close()

	labels, err := ReadLabels(file, path)
	if err != nil {
		return Labels{}, err
	}
	labels.Subject = subject
	return labels, nil
}

// ReadLabels parses whitespace-separated "time label" rows
func ReadLabels(r io.Reader, source string) (Labels, error) {
	var labels Labels

	err := scanRows(r, source, 2, func(line int, fields []float64) error {
		stage := int(fields[1])
		if float64(stage) != fields[1] {
			return NewDataFormatError(source, line,
				fmt.Sprintf("label %g is not an integer class code", fields[1]), nil)
		}
		labels.Items = append(labels.Items, Label{Time: fields[0], Stage: stage})
		return nil
	})
	if err != nil {
		return Labels{}, err
	}
	return labels, nil
}

func scanRows(r io.Reader, source string, columns int, row func(line int, fields []float64) error) error {
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 64*1024), 1024*1024)

	values := make([]float64, columns)
	line := 0
	for scanner.Scan() {
		line++
		text := strings.TrimSpace(scanner.Text())
		if text == "" {
			continue
		}

		fields := strings.Fields(text)
		if len(fields) != columns {
			return NewDataFormatError(source, line,
				fmt.Sprintf("expected %d columns, got %d", columns, len(fields)), nil)
		}
		for i, f := range fields {
			v, err := strconv.ParseFloat(f, 64)
			if err != nil {
				return NewDataFormatError(source, line, fmt.Sprintf("invalid number %q", f), err)
			}
			values[i] = v
		}
		if err := row(line, values); err != nil {
			return err
		}
	}
	if err := scanner.Err(); err != nil {
		return NewDataFormatError(source, line, "read failed", err)
	}
	return nil
}
