package template

import (
	"fmt"
	"slices"
)

// FormatVersion is the only template format version the compiler emits.
const FormatVersion = "2010-09-09"

// Resource types emitted by the compiler.
const (
	TypeDeliveryStream = "AWS::KinesisFirehose::DeliveryStream"
	TypeLogGroup       = "AWS::Logs::LogGroup"
	TypeLogStream      = "AWS::Logs::LogStream"
	TypeRole           = "AWS::IAM::Role"
	TypeBucket         = "AWS::S3::Bucket"
)

// Template is a declarative infrastructure document. Maps marshal with sorted keys,
// so equal inputs give byte-identical JSON.
type Template struct {
	FormatVersion string              `json:"AWSTemplateFormatVersion"`
	Description   string              `json:"Description,omitempty"`
	Resources     map[string]Resource `json:"Resources"`
	Outputs       map[string]Output   `json:"Outputs,omitempty"`
}

type Resource struct {
	Type       string `json:"Type"`
	Properties any    `json:"Properties,omitempty"`
}

type Output struct {
	Description string  `json:"Description,omitempty"`
	Value       any     `json:"Value"`
	Export      *Export `json:"Export,omitempty"`
}

type Export struct {
	Name any `json:"Name"`
}

func newTemplate(desc string) *Template {
	return &Template{
		FormatVersion: FormatVersion,
		Description:   desc,
		Resources:     map[string]Resource{},
		Outputs:       map[string]Output{},
	}
}

func (t *Template) add(id, typ string, props any) error {
	if _, exists := t.Resources[id]; exists {
		return fmt.Errorf("duplicate logical id %q", id)
	}
	t.Resources[id] = Resource{Type: typ, Properties: props}
	return nil
}

// ResourcesOfType returns the sorted logical ids of every resource of type typ.
func (t *Template) ResourcesOfType(typ string) []string {
	var ids []string
	for id, r := range t.Resources {
		if r.Type == typ {
			ids = append(ids, id)
		}
	}
	slices.Sort(ids)
	return ids
}

// Intrinsic functions. Values are either literal strings or one of these maps.

func Ref(id string) map[string]any { return map[string]any{"Ref": id} }

func GetAtt(id, attr string) map[string]any {
	return map[string]any{"Fn::GetAtt": []string{id, attr}}
}

func Sub(s string) map[string]any { return map[string]any{"Fn::Sub": s} }

func Join(sep string, parts ...any) map[string]any {
	return map[string]any{"Fn::Join": []any{sep, parts}}
}
