package main

import (
	"fmt"
	"io"
	"strconv"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"gopkg.in/yaml.v3"

	"github.com/ajitpratap0/colseries/pkg/config"
	"github.com/ajitpratap0/colseries/pkg/errors"
	"github.com/ajitpratap0/colseries/pkg/frame"
	"github.com/ajitpratap0/colseries/pkg/json"
	"github.com/ajitpratap0/colseries/pkg/series"
	"github.com/ajitpratap0/colseries/pkg/vector"
)

const (
	formatTable = "table"
	formatJSON  = "json"
)

func checkFormat(format string) error {
	if format != formatTable && format != formatJSON {
		return errors.Newf(errors.ErrorTypeValidation, "unknown format %q (table or json)", format)
	}
	return nil
}

// sampleFrame builds rows rows of (at timestamp, value float64, seq int64):
// timestamps interval apart from start, uniform random values and a running
// sequence number.
func sampleFrame(rows int, start time.Time, interval time.Duration, seed uint64, opts ...frame.Option) (*frame.Frame, error) {
	if rows < 0 {
		return nil, errors.Newf(errors.ErrorTypeValidation, "negative row count %d", rows)
	}
	if interval <= 0 {
		return nil, errors.Newf(errors.ErrorTypeValidation, "interval must be positive, got %s", interval)
	}
	schema := series.NewSchema(
		series.Field{Name: "at", Type: series.TypeTimestamp},
		series.Field{Name: "value", Type: series.TypeFloat64},
		series.Field{Name: "seq", Type: series.TypeInt64},
	)

	at, err := series.DateRange("at", start, start.Add(time.Duration(rows)*interval), rows)
	if err != nil {
		return nil, err
	}
	value, err := series.Random("value", rows, seed)
	if err != nil {
		return nil, err
	}
	seq := vector.New[int64](rows)
	seq.Fill(func(i int) int64 { return int64(i) })

	return frame.New(schema, []series.Series{at, value, series.NewOwned("seq", seq)}, opts...)
}

func newGenerateCmd(a *app) *cobra.Command {
	var (
		rows     int
		start    string
		interval time.Duration
		seed     uint64
	)

	cmd := &cobra.Command{
		Use:   "generate <id>",
		Short: "Generate a sample frame and store it",
		Long: `Generate a frame with a timestamp column, a random float64 column and an
int64 sequence, pack it into a row buffer and store it under <id>.

Example:
  colseries generate quotes --rows 1000 --start 2024-01-02T09:30:00Z --interval 1s`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			t0, err := time.Parse(time.RFC3339Nano, start)
			if err != nil {
				return errors.Wrap(err, errors.ErrorTypeValidation, "invalid --start")
			}

			f, err := sampleFrame(rows, t0, interval, seed, a.frameOptions()...)
			if err != nil {
				return err
			}
			doc, err := f.ToDocument(ctx, args[0])
			if err != nil {
				return err
			}
			store, err := a.openStore(ctx)
			if err != nil {
				return err
			}
			if err := store.Put(ctx, doc); err != nil {
				return err
			}

			a.log.Info("generated frame", zap.String("document", doc.ID), zap.Int("rows", doc.Height))
			fmt.Fprintf(a.out, "stored %s: %d rows x %d fields, stride %d, %d bytes\n",
				doc.ID, doc.Height, len(doc.Schema.Fields), doc.Schema.Stride, len(doc.Rows))
			return nil
		},
	}

	cmd.Flags().IntVarP(&rows, "rows", "n", 10, "Number of rows")
	cmd.Flags().StringVar(&start, "start", "2024-01-01T00:00:00Z", "First timestamp (RFC 3339)")
	cmd.Flags().DurationVar(&interval, "interval", time.Minute, "Spacing between timestamps")
	cmd.Flags().Uint64Var(&seed, "seed", 1, "Seed for the random value column")
	return cmd
}

func newShowCmd(a *app) *cobra.Command {
	var (
		format     string
		offset     int
		limit      int
		step       int
		schemaOnly bool
	)

	cmd := &cobra.Command{
		Use:   "show <id>",
		Short: "Decode a stored frame and print its rows",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := checkFormat(format); err != nil {
				return err
			}
			ctx := cmd.Context()
			store, err := a.openStore(ctx)
			if err != nil {
				return err
			}
			doc, err := store.Get(ctx, args[0])
			if err != nil {
				return err
			}
			f, err := frame.FromDocument(ctx, doc, a.frameOptions()...)
			if err != nil {
				return err
			}

			if schemaOnly {
				return printSchema(a.out, f.Schema(), format)
			}

			if offset != 0 || limit >= 0 || step > 1 {
				f, err = f.Slice(pageRange(f.Height(), offset, limit, step))
				if err != nil {
					return err
				}
			}
			if format == formatJSON {
				return printRowsJSON(a.out, f)
			}
			return printRowsTable(a.out, f)
		},
	}

	cmd.Flags().StringVarP(&format, "format", "f", formatTable, "Output format (table or json)")
	cmd.Flags().IntVar(&offset, "offset", 0, "First row to print")
	cmd.Flags().IntVar(&limit, "limit", -1, "Maximum rows to print (-1 = all)")
	cmd.Flags().IntVar(&step, "step", 1, "Print every step-th row")
	cmd.Flags().BoolVar(&schemaOnly, "schema", false, "Print the schema instead of rows")
	return cmd
}

// pageRange clamps limit to the rows available from offset. An offset past
// the end is passed through so that slicing reports it.
func pageRange(height, offset, limit, step int) series.Range {
	if step < 1 {
		step = 1
	}
	avail := 0
	if offset >= 0 && offset < height {
		avail = (height - offset + step - 1) / step
	}
	if limit < 0 || limit > avail {
		limit = avail
	}
	return series.Range{Start: offset, Length: limit, Step: step}
}

func formatValue(v any) string {
	switch x := v.(type) {
	case time.Time:
		return x.Format(time.RFC3339Nano)
	case float64:
		return strconv.FormatFloat(x, 'g', -1, 64)
	case int64:
		return strconv.FormatInt(x, 10)
	default:
		return fmt.Sprint(x)
	}
}

func printRowsTable(w io.Writer, f *frame.Frame) error {
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	names := make([]string, len(f.Schema().Fields))
	for i, field := range f.Schema().Fields {
		names[i] = strings.ToUpper(field.Name)
	}
	fmt.Fprintln(tw, strings.Join(names, "\t"))

	cells := make([]string, len(names))
	for i := 0; i < f.Height(); i++ {
		row, err := f.Row(i)
		if err != nil {
			return err
		}
		for j, v := range row {
			cells[j] = formatValue(v)
		}
		fmt.Fprintln(tw, strings.Join(cells, "\t"))
	}
	return tw.Flush()
}

func printRowsJSON(w io.Writer, f *frame.Frame) error {
	enc := json.NewStreamingEncoder(w, true)
	enc.SetPretty("  ")
	fields := f.Schema().Fields
	for i := 0; i < f.Height(); i++ {
		row, err := f.Row(i)
		if err != nil {
			return err
		}
		obj := make(map[string]any, len(row))
		for j, v := range row {
			obj[fields[j].Name] = v
		}
		if err := enc.Encode(obj); err != nil {
			return err
		}
	}
	return enc.Close()
}

func printSchema(w io.Writer, schema *series.Schema, format string) error {
	if format == formatJSON {
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(schema)
	}
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "NAME\tTYPE\tOFFSET\tWIDTH")
	for _, field := range schema.Fields {
		fmt.Fprintf(tw, "%s\t%s\t%d\t%d\n", field.Name, field.Type, field.Offset, field.Width)
	}
	fmt.Fprintf(tw, "stride\t\t\t%d\n", schema.Stride)
	return tw.Flush()
}

func newListCmd(a *app) *cobra.Command {
	var format string

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List stored frames",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := checkFormat(format); err != nil {
				return err
			}
			store, err := a.openStore(cmd.Context())
			if err != nil {
				return err
			}
			docs, err := store.List(cmd.Context())
			if err != nil {
				return err
			}

			if format == formatJSON {
				enc := json.NewEncoder(a.out)
				enc.SetIndent("", "  ")
				return enc.Encode(docs)
			}
			tw := tabwriter.NewWriter(a.out, 0, 0, 2, ' ', 0)
			fmt.Fprintln(tw, "ID\tROWS\tFIELDS\tUPDATED")
			for _, d := range docs {
				fmt.Fprintf(tw, "%s\t%d\t%d\t%s\n", d.ID, d.Height, d.Fields, d.UpdatedAt.Format(time.RFC3339))
			}
			return tw.Flush()
		},
	}
	cmd.Flags().StringVarP(&format, "format", "f", formatTable, "Output format (table or json)")
	return cmd
}

func newDeleteCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "delete <id>...",
		Short: "Delete stored frames",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			store, err := a.openStore(cmd.Context())
			if err != nil {
				return err
			}
			for _, id := range args {
				if err := store.Delete(cmd.Context(), id); err != nil {
					return err
				}
				fmt.Fprintf(a.out, "deleted %s\n", id)
			}
			return nil
		},
	}
}

func newConfigCmd(a *app) *cobra.Command {
	var output string

	cmd := &cobra.Command{
		Use:   "config",
		Short: "Print the effective configuration",
		Long: `Print the configuration after defaults, the config file, environment
variables and flags have been applied. With --output the YAML is written to a
file that --config can load later.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if output != "" {
				if err := config.Save(output, a.cfg); err != nil {
					return err
				}
				fmt.Fprintf(a.out, "wrote %s\n", output)
				return nil
			}
			data, err := yaml.Marshal(a.cfg)
			if err != nil {
				return errors.Wrap(err, errors.ErrorTypeConfig, "failed to marshal YAML")
			}
			_, err = a.out.Write(data)
			return err
		},
	}
	cmd.Flags().StringVarP(&output, "output", "o", "", "Write the configuration to this file")
	return cmd
}
