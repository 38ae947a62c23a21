package main

import (
	"io"
	"log"
	"os"
	"strings"

	"github.com/rs/zerolog"

	gopher "github.com/parazyd/gophers"
)

type ExampleHandler struct {
}

func (h ExampleHandler) ServeGopher(r gopher.Request) io.Reader {
	if r.Selector != "" {
		return strings.NewReader("3Not found\t\terror.host\t1\r\n.\r\n")
	}

	return strings.NewReader("iHello World\t\terror.host\t1\r\n.\r\n")
}

func main() {
	logger := zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr})

	err := gopher.ListenAndServe("127.0.0.1:7070", ExampleHandler{}, gopher.WithLogger(logger))
	if err != nil {
		log.Fatal(err)
	}
}
