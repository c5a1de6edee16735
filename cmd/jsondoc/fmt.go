package main

import (
	"github.com/spf13/cobra"
)

type Fmt struct {
	root *Root
}

func NewFmt(root *Root) *cobra.Command {
	f := &Fmt{root: root}
	return &cobra.Command{
		Use:   "fmt FILE",
		Short: "Print a JSON or YAML document in canonical compact form",
		Args:  cobra.ExactArgs(1),
		RunE:  f.Run,
	}
}

func (f *Fmt) Run(cmd *cobra.Command, args []string) error {
	doc, err := f.root.readDocument(cmd, args[0])
	if err != nil {
		return err
	}
	p := f.root.processor(cmd)
	defer p.Close()

	v, err := p.Parse(doc)
	if err != nil {
		return err
	}
	return f.root.writeValue(cmd, v)
}
