package export

import (
	"fmt"
	"io"

	"github.com/apache/arrow/go/v18/arrow"
	"github.com/apache/arrow/go/v18/arrow/array"
	"github.com/apache/arrow/go/v18/arrow/ipc"
	"github.com/apache/arrow/go/v18/arrow/memory"

	"dashboard/internal/models"
)

// ContentType of an Arrow IPC stream.
const ContentType = "application/vnd.apache.arrow.stream"

// Schema returns the two column layout of an exported table: the attribute
// value and its customer count.
func Schema(t models.Table) *arrow.Schema {
	md := arrow.NewMetadata(
		[]string{"title", "attribute", "order"},
		[]string{t.Title, t.Attribute, t.Order},
	)
	return arrow.NewSchema([]arrow.Field{
		{Name: t.Attribute, Type: arrow.BinaryTypes.String},
		{Name: "count", Type: arrow.PrimitiveTypes.Int64},
	}, &md)
}

// WriteIPC streams t as a single Arrow record batch.
func WriteIPC(w io.Writer, t models.Table) error {
	mem := memory.NewGoAllocator()
	schema := Schema(t)

	b := array.NewRecordBuilder(mem, schema)
	defer b.Release()

	names := b.Field(0).(*array.StringBuilder)
	counts := b.Field(1).(*array.Int64Builder)
	for _, it := range t.Items {
		names.Append(it.Name)
		counts.Append(int64(it.Count))
	}

	rec := b.NewRecord()
	defer rec.Release()

	wr := ipc.NewWriter(w, ipc.WithSchema(schema), ipc.WithAllocator(mem))
	if err := wr.Write(rec); err != nil {
		wr.Close()
		return fmt.Errorf("write arrow record: %w", err)
	}
	if err := wr.Close(); err != nil {
		return fmt.Errorf("close arrow stream: %w", err)
	}
	return nil
}
