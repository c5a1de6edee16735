package main

import (
	"github.com/spf13/cobra"
)

type Get struct {
	root *Root
}

func NewGet(root *Root) *cobra.Command {
	g := &Get{root: root}
	return &cobra.Command{
		Use:   "get FILE POINTER",
		Short: "Print the value at a JSON pointer",
		Args:  cobra.ExactArgs(2),
		RunE:  g.Run,
	}
}

func (g *Get) Run(cmd *cobra.Command, args []string) error {
	doc, err := g.root.readDocument(cmd, args[0])
	if err != nil {
		return err
	}
	p := g.root.processor(cmd)
	defer p.Close()

	v, err := p.Get(doc, args[1])
	if err != nil {
		return err
	}
	return g.root.writeValue(cmd, v)
}

type Set struct {
	root *Root
}

func NewSet(root *Root) *cobra.Command {
	s := &Set{root: root}
	return &cobra.Command{
		Use:   "set FILE POINTER VALUE",
		Short: "Store a JSON value at a pointer, creating missing objects",
		Args:  cobra.ExactArgs(3),
		RunE:  s.Run,
	}
}

func (s *Set) Run(cmd *cobra.Command, args []string) error {
	doc, err := s.root.readDocument(cmd, args[0])
	if err != nil {
		return err
	}
	p := s.root.processor(cmd)
	defer p.Close()

	out, err := p.Set(doc, args[1], args[2])
	if err != nil {
		return err
	}
	return s.root.writeText(cmd, out)
}

type Remove struct {
	root *Root
}

func NewRemove(root *Root) *cobra.Command {
	r := &Remove{root: root}
	return &cobra.Command{
		Use:     "remove FILE POINTER",
		Aliases: []string{"rm"},
		Short:   "Remove the value at a pointer",
		Args:    cobra.ExactArgs(2),
		RunE:    r.Run,
	}
}

func (r *Remove) Run(cmd *cobra.Command, args []string) error {
	doc, err := r.root.readDocument(cmd, args[0])
	if err != nil {
		return err
	}
	p := r.root.processor(cmd)
	defer p.Close()

	out, err := p.Remove(doc, args[1])
	if err != nil {
		return err
	}
	return r.root.writeText(cmd, out)
}

type Select struct {
	root *Root
}

func NewSelect(root *Root) *cobra.Command {
	s := &Select{root: root}
	return &cobra.Command{
		Use:   "select FILE SELECTOR",
		Short: "Project a document onto a field selector such as 'a/b,c(d,e)'",
		Args:  cobra.ExactArgs(2),
		RunE:  s.Run,
	}
}

func (s *Select) Run(cmd *cobra.Command, args []string) error {
	doc, err := s.root.readDocument(cmd, args[0])
	if err != nil {
		return err
	}
	p := s.root.processor(cmd)
	defer p.Close()

	out, err := p.Select(doc, args[1])
	if err != nil {
		return err
	}
	return s.root.writeText(cmd, out)
}
