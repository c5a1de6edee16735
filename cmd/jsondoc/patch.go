package main

import (
	"github.com/spf13/cobra"
)

type Diff struct {
	root *Root
}

func NewDiff(root *Root) *cobra.Command {
	d := &Diff{root: root}
	return &cobra.Command{
		Use:   "diff OLD NEW",
		Short: "Print the RFC 7396 merge patch turning OLD into NEW",
		Args:  cobra.ExactArgs(2),
		RunE:  d.Run,
	}
}

func (d *Diff) Run(cmd *cobra.Command, args []string) error {
	oldDoc, err := d.root.readDocument(cmd, args[0])
	if err != nil {
		return err
	}
	newDoc, err := d.root.readDocument(cmd, args[1])
	if err != nil {
		return err
	}
	p := d.root.processor(cmd)
	defer p.Close()

	out, err := p.Diff(oldDoc, newDoc)
	if err != nil {
		return err
	}
	return d.root.writeText(cmd, out)
}

type Patch struct {
	root *Root
}

func NewPatch(root *Root) *cobra.Command {
	p := &Patch{root: root}
	return &cobra.Command{
		Use:   "patch FILE PATCH",
		Short: "Apply an RFC 7396 merge patch to a document",
		Args:  cobra.ExactArgs(2),
		RunE:  p.Run,
	}
}

func (p *Patch) Run(cmd *cobra.Command, args []string) error {
	doc, err := p.root.readDocument(cmd, args[0])
	if err != nil {
		return err
	}
	patch, err := p.root.readDocument(cmd, args[1])
	if err != nil {
		return err
	}
	proc := p.root.processor(cmd)
	defer proc.Close()

	out, err := proc.Patch(doc, patch)
	if err != nil {
		return err
	}
	return p.root.writeText(cmd, out)
}
