package main

import (
	"fmt"
	"os"

	"github.com/cybergodev/jsondoc/cbor"
	"github.com/spf13/cobra"
)

type Encode struct {
	root *Root
	file string
}

func NewEncode(root *Root) *cobra.Command {
	e := &Encode{root: root}
	cmd := &cobra.Command{
		Use:   "encode FILE",
		Short: "Encode a JSON or YAML document in binary form",
		Args:  cobra.ExactArgs(1),
		RunE:  e.Run,
	}
	cmd.Flags().StringVarP(&e.file, "file", "f", "", "Write the encoding to this file instead of stdout")
	return cmd
}

func (e *Encode) Run(cmd *cobra.Command, args []string) error {
	doc, err := e.root.readDocument(cmd, args[0])
	if err != nil {
		return err
	}
	p := e.root.processor(cmd)
	defer p.Close()

	v, err := p.Parse(doc)
	if err != nil {
		return err
	}
	data := cbor.Encode(v)
	if e.file != "" {
		if err := os.WriteFile(e.file, data, 0644); err != nil {
			return fmt.Errorf("writing %s: %w", e.file, err)
		}
		return nil
	}
	_, err = cmd.OutOrStdout().Write(data)
	return err
}

type Decode struct {
	root *Root
}

func NewDecode(root *Root) *cobra.Command {
	d := &Decode{root: root}
	return &cobra.Command{
		Use:   "decode FILE",
		Short: "Decode a binary document and print it",
		Args:  cobra.ExactArgs(1),
		RunE:  d.Run,
	}
}

func (d *Decode) Run(cmd *cobra.Command, args []string) error {
	data, err := readInput(cmd, args[0])
	if err != nil {
		return err
	}
	if int64(len(data)) > d.root.MaxSize {
		return fmt.Errorf("%s is larger than %d bytes", args[0], d.root.MaxSize)
	}
	v, err := cbor.Decode(data, cbor.WithMaxDepth(d.root.MaxDepth))
	if err != nil {
		return fmt.Errorf("decoding %s: %w", args[0], err)
	}
	return d.root.writeValue(cmd, v)
}
