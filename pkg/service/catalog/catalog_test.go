package catalog_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/m-mizutani/gt"
	"github.com/wathbahs/muraji/pkg/service/catalog"
)

func writeLib(t *testing.T, dir, name, body string) {
	t.Helper()
	gt.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte(body), 0600))
}

func TestLoadCatalog(t *testing.T) {
	dir := t.TempDir()
	writeLib(t, dir, "nist.yaml", `
name: NIST CSF
urn: urn:framework:nist-csf
requirements:
  - ref_id: ID.AM-1
    urn: urn:node:id-am-1
    name: Asset inventory
    description: Physical devices and systems are inventoried
    depth: 2
`)
	writeLib(t, dir, "iso.yml", `
name: ISO 27001
urn: urn:framework:iso27001
requirements:
  - ref_id: A.5.1
    urn: urn:node:a-5-1
    name: Policies for information security
    description: Information security policy shall be defined
    depth: 1
  - ref_id: A.5.2
    urn: urn:node:a-5-2
    name: Roles and responsibilities
    description: Roles shall be defined and allocated
    depth: 1
`)
	writeLib(t, dir, "notes.txt", "not a library")

	cat := gt.R1(catalog.Load(dir)).NoError(t)
	frameworks := cat.Frameworks()

	// Sorted by name, non-YAML files skipped
	gt.A(t, frameworks).Length(2)
	gt.Equal(t, frameworks[0].Name, "ISO 27001")
	gt.Equal(t, frameworks[1].Name, "NIST CSF")
	gt.A(t, frameworks[0].Requirements).Length(2)
	gt.Equal(t, frameworks[0].Requirements[0].RefID, "A.5.1")
	gt.Equal(t, frameworks[0].Requirements[0].Depth, 1)
}

func TestLoadCatalogMissingDir(t *testing.T) {
	cat := gt.R1(catalog.Load("/no/such/dir")).NoError(t)
	gt.A(t, cat.Frameworks()).Length(0)
}

func TestLoadCatalogEmptyConfig(t *testing.T) {
	cat := gt.R1(catalog.Load("")).NoError(t)
	gt.NotNil(t, cat.Frameworks())
	gt.A(t, cat.Frameworks()).Length(0)
}

func TestLoadCatalogInvalidYAML(t *testing.T) {
	dir := t.TempDir()
	writeLib(t, dir, "broken.yaml", "name: [unclosed")
	gt.R1(catalog.Load(dir)).Error(t)
}

func TestLoadCatalogMissingURN(t *testing.T) {
	dir := t.TempDir()
	writeLib(t, dir, "anon.yaml", "name: Anonymous\nrequirements: []\n")
	gt.R1(catalog.Load(dir)).Error(t)
}

func TestFind(t *testing.T) {
	dir := t.TempDir()
	writeLib(t, dir, "iso.yaml", "name: ISO 27001\nurn: urn:framework:iso27001\n")

	cat := gt.R1(catalog.Load(dir)).NoError(t)
	gt.NotNil(t, cat.Find("urn:framework:iso27001"))
	gt.Nil(t, cat.Find("urn:framework:other"))
}
