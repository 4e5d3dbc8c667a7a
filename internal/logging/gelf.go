package logging

import (
	"fmt"
	"io"

	"github.com/Graylog2/go-gelf/gelf"
	"github.com/spf13/viper"
)

// NewGraylogWriter dials the configured Graylog endpoint and returns a
// GELF writer, or nil when graylog.enabled is false.
func NewGraylogWriter() (io.Writer, error) {
	if !viper.GetBool("graylog.enabled") {
		return nil, nil
	}
	w, err := gelf.NewWriter(viper.GetString("graylog.address"))
	if err != nil {
		return nil, fmt.Errorf("dialing graylog: %w", err)
	}
	return w, nil
}
