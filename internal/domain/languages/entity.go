package languages

import (
	"encoding/json"
	"sort"
)

// Tag identifies a detected ecosystem in the target repository
type Tag string

const (
	Python     Tag = "python"
	JavaScript Tag = "javascript"
	Java       Tag = "java"
	Go         Tag = "go"
	Ruby       Tag = "ruby"
	PHP        Tag = "php"
	DotNet     Tag = "dotnet"
	Docker     Tag = "docker"
	Terraform  Tag = "terraform"
	K8s        Tag = "k8s"
)

// Vocabulary is every tag a Detector may produce.
var Vocabulary = []Tag{Python, JavaScript, Java, Go, Ruby, PHP, DotNet, Docker, Terraform, K8s}

// Known reports whether t belongs to Vocabulary.
func Known(t Tag) bool {
	for _, v := range Vocabulary {
		if v == t {
			return true
		}
	}
	return false
}

// Set is an unordered collection of tags without duplicates.
type Set map[Tag]struct{}

func NewSet(tags ...Tag) Set {
	s := make(Set, len(tags))
	for _, t := range tags {
		s[t] = struct{}{}
	}
	return s
}

func (s Set) Add(t Tag) { s[t] = struct{}{} }

func (s Set) Has(t Tag) bool {
	_, ok := s[t]
	return ok
}

func (s Set) Len() int { return len(s) }

// Sorted returns the tags in lexical order so prompts and logs are stable.
func (s Set) Sorted() []Tag {
	out := make([]Tag, 0, len(s))
	for t := range s {
		out = append(out, t)
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}

// Strings is Sorted as plain strings.
func (s Set) Strings() []string {
	tags := s.Sorted()
	out := make([]string, len(tags))
	for i, t := range tags {
		out[i] = string(t)
	}
	return out
}

func (s Set) MarshalJSON() ([]byte, error) {
	return json.Marshal(s.Strings())
}
