package main

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ukaji3/edimap-go/pkg/edimap"
	"github.com/ukaji3/edimap-go/pkg/edimap/output"
)

func TestParseRegions(t *testing.T) {
	regions, err := parseRegions([]string{"'受注 1'!A3:D10", "Sheet2!B2:C4,Sheet2!E2:F4"})
	require.NoError(t, err)
	require.Len(t, regions["受注 1"], 1)
	assert.Equal(t, 2, regions["受注 1"][0].StartRow)
	assert.Len(t, regions["Sheet2"], 2)

	none, err := parseRegions(nil)
	require.NoError(t, err)
	assert.Nil(t, none)

	_, err = parseRegions([]string{"A1:B2"})
	assert.Error(t, err)
}

func TestKindDir(t *testing.T) {
	assert.Equal(t, output.MappingsDir, kindDir(edimap.KindMapping))
	assert.Equal(t, output.CodeDefinitionsDir, kindDir(edimap.KindCodeDefinitions))
	assert.Equal(t, output.InformationItemsDir, kindDir(edimap.KindInformationItems))
}

func TestReadDocument(t *testing.T) {
	dir := t.TempDir()

	jsonPath := filepath.Join(dir, "order.json")
	require.NoError(t, os.WriteFile(jsonPath, []byte(`{"orderNo": "PO-1"}`), 0644))
	data, err := readDocument(jsonPath)
	require.NoError(t, err)
	assert.Equal(t, "PO-1", data["orderNo"])

	xmlPath := filepath.Join(dir, "order.xml")
	require.NoError(t, os.WriteFile(xmlPath, []byte(`<SMEOrder><ID>PO-1</ID></SMEOrder>`), 0644))
	data, err = readDocument(xmlPath)
	require.NoError(t, err)
	assert.Equal(t, "PO-1", data["ID"])

	badPath := filepath.Join(dir, "bad.json")
	require.NoError(t, os.WriteFile(badPath, []byte(`{`), 0644))
	_, err = readDocument(badPath)
	assert.Error(t, err)
}
