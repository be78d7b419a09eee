package config

import (
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/ayusman/sinais/internal/gesture"
)

// PhraseDef is one named phrase in a phrase file.
type PhraseDef struct {
	Name   string   `yaml:"name"`
	Labels []string `yaml:"labels"`
}

type phraseFile struct {
	Phrases []PhraseDef `yaml:"phrases"`
}

// LoadPhraseFile reads phrase definitions from a YAML file.
func LoadPhraseFile(path string) ([]PhraseDef, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open phrase file: %w", err)
	}
	defer f.Close()
	return ParsePhrases(f)
}

// ParsePhrases decodes and validates phrase definitions of the form
//
//	phrases:
//	  - name: saudacao
//	    labels: [bom, dia]
//
// Label names are normalized to their canonical spelling.
func ParsePhrases(r io.Reader) ([]PhraseDef, error) {
	var doc phraseFile
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	if err := dec.Decode(&doc); err != nil {
		if errors.Is(err, io.EOF) {
			return nil, errors.New("phrase file is empty")
		}
		return nil, fmt.Errorf("parse phrase file: %w", err)
	}

	seen := make(map[string]bool, len(doc.Phrases))
	defs := make([]PhraseDef, 0, len(doc.Phrases))
	for i, def := range doc.Phrases {
		name := strings.TrimSpace(def.Name)
		if name == "" {
			return nil, fmt.Errorf("phrase %d: name is required", i)
		}
		if seen[name] {
			return nil, fmt.Errorf("phrase %q: duplicate name", name)
		}
		seen[name] = true

		labels, err := gesture.ParsePhrase(def.Labels)
		if err != nil {
			return nil, fmt.Errorf("phrase %q: %w", name, err)
		}
		if len(labels) == 0 {
			return nil, fmt.Errorf("phrase %q: %w", name, gesture.ErrEmptyPhrase)
		}

		canonical := make([]string, len(labels))
		for j, l := range labels {
			canonical[j] = string(l)
		}
		defs = append(defs, PhraseDef{Name: name, Labels: canonical})
	}
	return defs, nil
}
