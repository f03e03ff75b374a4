// tiffdump walks the IFD chain of a TIFF file and prints every tag it
// finds, mirroring garyhouston/tiff66's tiff66print tool but over this
// module's structure-only reader.
package main

import (
	"flag"
	"fmt"
	"log"
	"os"

	"github.com/pvachon/libghetto/bytesource"
	"github.com/pvachon/libghetto/tiff"
)

func printIFD(offset uint32, ifd *tiff.IFD, maxValues uint) {
	fmt.Printf("\nIFD at offset %d, %d entries:\n", offset, ifd.TagCount())
	for i := 0; i < ifd.TagCount(); i++ {
		t, err := ifd.TagAt(i)
		if err != nil {
			log.Fatal(err)
		}
		printTag(t, maxValues)
	}
}

func printTag(t *tiff.Tag, maxValues uint) {
	size := tiff.TypeSize(t.Type())
	if size == 0 {
		fmt.Printf("  tag %5d  type %-10d (unknown, skipped)\n", t.ID(), t.Type())
		return
	}

	n := t.Count()
	shown := n
	if maxValues != 0 && uint(shown) > maxValues {
		shown = uint32(maxValues)
	}

	dest := make([]byte, size*n)
	if _, err := t.Data(dest); err != nil {
		fmt.Printf("  tag %5d  type %-10d count %-6d (error reading data: %v)\n", t.ID(), t.Type(), n, err)
		return
	}

	fmt.Printf("  tag %5d  type %-10d count %-6d bytes %d\n", t.ID(), t.Type(), n, len(dest))
	if shown < n {
		fmt.Printf("    (showing %d of %d values)\n", shown, n)
	}
	for i := uint32(0); i < shown; i++ {
		fmt.Printf("    [%d] % x\n", i, dest[i*size:(i+1)*size])
	}
}

func main() {
	var maxValues uint
	flag.UintVar(&maxValues, "m", 20, "maximum values to print per tag, or 0 for no limit")
	flag.Parse()

	if flag.NArg() != 1 {
		fmt.Fprintf(os.Stderr, "usage: %s [-m max values] file\n", os.Args[0])
		os.Exit(2)
	}

	src, err := bytesource.OpenFile(flag.Arg(0))
	if err != nil {
		log.Fatal(err)
	}

	c, err := tiff.Open(src)
	if err != nil {
		log.Fatal(err)
	}
	defer c.Close()

	fmt.Printf("%s: byte order %v, root IFD at %d\n", flag.Arg(0), c.ByteOrder(), c.RootIFDOffset())

	err = c.Walk(c.RootIFDOffset(), func(offset uint32, ifd *tiff.IFD) error {
		printIFD(offset, ifd, maxValues)
		return nil
	})
	if err != nil {
		log.Fatal(err)
	}
}
