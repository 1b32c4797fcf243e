package eventmap

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"os"
	"path/filepath"

	"github.com/agentstation/utc"
	"github.com/goccy/go-yaml"

	"github.com/agentstation/eventmap/pkg/constants"
	"github.com/agentstation/eventmap/pkg/errors"
	"github.com/agentstation/eventmap/pkg/events"
	"github.com/agentstation/eventmap/pkg/save"
)

// Compile-time interface check to ensure proper implementation.
var _ Persistence = (*client)(nil)

// Persistence handles collection persistence operations.
type Persistence interface {
	// Load reads the configured collection file
	Load() (*events.Collection, error)

	// LoadFrom reads a collection file
	LoadFrom(path string) (*events.Collection, error)

	// Save with options
	Save(collection *events.Collection, opts ...save.Option) error
}

// Load reads the configured collection file.
func (c *client) Load() (*events.Collection, error) {
	return c.LoadFrom(c.options.eventsPath)
}

// LoadFrom reads the collection stored at path. A missing file yields a
// NotFoundError.
func (c *client) LoadFrom(path string) (*events.Collection, error) {
	f, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, errors.NewNotFoundError("collection", path)
		}
		return nil, errors.WrapIO("open", path, err)
	}
	defer f.Close() //nolint:errcheck

	collection, err := ReadCollection(f)
	if err != nil {
		var pe *errors.ParseError
		if errors.As(err, &pe) {
			pe.File = path
		}
		return nil, err
	}
	return collection, nil
}

// Save writes collection to the configured file, or wherever opts point.
// The previous file is kept as <path>.bak.<UTC timestamp> unless backups
// are disabled, and the new content replaces it atomically. A .yaml or .yml
// path is written as YAML unless save.WithFormat says otherwise.
func (c *client) Save(collection *events.Collection, opts ...save.Option) error {
	so := save.Defaults()
	so.Apply(save.WithPath(c.options.eventsPath), save.WithBackup(c.options.backups))
	options := so.Apply(opts...)

	if !options.Format().IsValid() {
		return &errors.ValidationError{
			Field:   "format",
			Value:   options.Format(),
			Message: "unsupported save format",
		}
	}
	if options.Writer() != nil {
		return WriteCollection(options.Writer(), collection, options.Format())
	}

	path := options.Path()
	if path == "" {
		return &errors.ConfigError{
			Component: "collection",
			Message:   "no path configured for saving",
		}
	}

	var buf bytes.Buffer
	if err := WriteCollection(&buf, collection, options.Format()); err != nil {
		return err
	}

	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, constants.DirPermissions); err != nil {
		return errors.WrapIO("create", dir, err)
	}

	logger := c.logger(context.Background())
	if options.Backup() {
		backup, err := backupFile(path)
		if err != nil {
			return err
		}
		if backup != "" {
			logger.Info().Str("backup", backup).Msg("Backup written")
		}
	}

	if err := writeFileAtomic(path, buf.Bytes()); err != nil {
		return err
	}
	logger.Debug().
		Str("path", path).
		Int("events", len(collection.Events)).
		Msg("Collection saved")
	return nil
}

// ReadCollection decodes a JSON or YAML collection. A bare list is
// accepted as events without category definitions.
func ReadCollection(r io.Reader) (*events.Collection, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, errors.WrapIO("read", "collection", err)
	}
	data = bytes.TrimSpace(data)

	collection := events.NewCollection()
	if len(data) == 0 {
		return collection, nil
	}

	format := "json"
	if data[0] != '{' && data[0] != '[' {
		format = "yaml"
		if data, err = yamlToJSON(data); err != nil {
			return nil, errors.NewParseError(format, "", "decoding collection", err)
		}
	}

	if data[0] == '[' {
		err = json.Unmarshal(data, &collection.Events)
	} else {
		err = json.Unmarshal(data, collection)
	}
	if err != nil {
		return nil, errors.NewParseError(format, "", "decoding collection", err)
	}

	if collection.Categories == nil {
		collection.Categories = make(map[string]events.Category)
	}
	if collection.Events == nil {
		collection.Events = []*events.Record{}
	}
	return collection, nil
}

// yamlToJSON re-encodes a YAML document so the json tags and unmarshalers
// of the event types apply to it too.
func yamlToJSON(data []byte) ([]byte, error) {
	var v any
	if err := yaml.Unmarshal(data, &v); err != nil {
		return nil, err
	}
	out, err := json.Marshal(v)
	if err != nil {
		return nil, err
	}
	if len(out) == 0 || (out[0] != '{' && out[0] != '[') {
		return nil, errors.New("expected a mapping or a list of events")
	}
	return out, nil
}

// WriteCollection encodes collection. JSON is indented by two spaces and
// leaves non-ASCII text and HTML characters unescaped.
func WriteCollection(w io.Writer, collection *events.Collection, format save.Format) error {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", "  ")
	if err := enc.Encode(collection); err != nil {
		return errors.WrapParse("json", "collection", err)
	}

	data := buf.Bytes()
	if format == save.FormatYAML {
		out, err := yaml.JSONToYAML(data)
		if err != nil {
			return errors.WrapParse("yaml", "collection", err)
		}
		data = out
	}

	if _, err := w.Write(data); err != nil {
		return errors.WrapIO("write", "collection", err)
	}
	return nil
}

// backupFile copies path aside and returns the backup's name, or "" when
// there was nothing to back up.
func backupFile(path string) (string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return "", nil
		}
		return "", errors.WrapIO("read", path, err)
	}
	backup := path + constants.BackupSuffix + utc.Now().Time.Format(constants.TimeFormatFilename)
	if err := os.WriteFile(backup, data, constants.FilePermissions); err != nil {
		return "", errors.WrapIO("write", backup, err)
	}
	return backup, nil
}

// writeFileAtomic writes data to a temporary file next to path and renames
// it over path.
func writeFileAtomic(path string, data []byte) error {
	tmp, err := os.CreateTemp(filepath.Dir(path), "."+filepath.Base(path)+".tmp-*")
	if err != nil {
		return errors.WrapIO("create", path, err)
	}
	name := tmp.Name()
	cleanup := func() { _ = os.Remove(name) }

	if _, err := tmp.Write(data); err != nil {
		_ = tmp.Close()
		cleanup()
		return errors.WrapIO("write", name, err)
	}
	if err := tmp.Sync(); err != nil {
		_ = tmp.Close()
		cleanup()
		return errors.WrapIO("sync", name, err)
	}
	if err := tmp.Close(); err != nil {
		cleanup()
		return errors.WrapIO("close", name, err)
	}
	if err := os.Chmod(name, constants.FilePermissions); err != nil {
		cleanup()
		return errors.WrapIO("chmod", name, err)
	}
	if err := os.Rename(name, path); err != nil {
		cleanup()
		return errors.WrapIO("rename", path, err)
	}
	return nil
}
