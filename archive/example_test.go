package archive_test

import (
	"context"
	"fmt"

	"github.com/hupe1980/bufarray"
	"github.com/hupe1980/bufarray/archive"
	"github.com/hupe1980/bufarray/blobstore"
)

func ExampleSave() {
	ctx := context.Background()
	store := blobstore.NewMemoryStore()

	a, _ := bufarray.New2D(2, 3, bufarray.WithLogger(nil))
	defer a.Close()
	_ = a.Fill(0, 6, 1, 2.5)

	stats, err := archive.Save(ctx, store, "grid.bfa", a, archive.WithCompression(archive.CompressionZSTD))
	if err != nil {
		panic(err)
	}
	fmt.Println(stats.Elements, stats.Blocks)

	b, err := archive.Restore(ctx, store, "grid.bfa", "", []bufarray.Option{bufarray.WithLogger(nil)})
	if err != nil {
		panic(err)
	}
	defer b.Close()

	v, _ := b.At(1, 2)
	fmt.Println(b.Shape(), v)
	// Output:
	// 6 1
	// [2x3] 2.5
}
