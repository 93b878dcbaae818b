// Package catalog is the static vocabulary of the unified archive: the known
// databases with their on-disk discovery codenames, the admitted variable
// lists per parameter domain and quality setting, and the reference physical
// units per variable family.
package catalog

import (
	"fmt"
	"strings"
)

// Domain selects one of the two mutually exclusive parameter universes.
type Domain string

const (
	// PHY covers the physical parameters (temperature, salinity, pressure).
	PHY Domain = "PHY"
	// BGC covers the biogeochemical parameters (oxygen, chlorophyll, nutrients).
	BGC Domain = "BGC"
)

// ParseDomain normalizes and validates a domain name.
func ParseDomain(s string) (Domain, error) {
	switch Domain(strings.ToUpper(s)) {
	case PHY:
		return PHY, nil
	case BGC:
		return BGC, nil
	}
	return "", fmt.Errorf("invalid domain type '%s', must be one of [PHY BGC]", s)
}

// DBNameVariable is the source-identifier pseudo-column: not physically
// stored in every archive, synthesized per row at read time when requested.
const DBNameVariable = "DB_NAME"

var databases = []string{"ARGO", "GLODAP", "SprayGliders"}

// codenames are the discovery tokens: each database lives in the one
// directory under the root whose name contains its codename.
var codenames = map[string]string{
	"ARGO":         "ARGO",
	"GLODAP":       "GLODAP",
	"SprayGliders": "SPRAY",
}

// Databases returns every database id the catalog knows, in canonical order.
func Databases() []string {
	out := make([]string, len(databases))
	copy(out, databases)
	return out
}

// IsDatabase reports whether db is a cataloged database id.
func IsDatabase(db string) bool {
	_, ok := codenames[db]
	return ok
}

// Codename returns the filesystem discovery token for db.
func Codename(db string) (string, bool) {
	codename, ok := codenames[db]
	return codename, ok
}

var phyQC = []string{
	"PLATFORM_NUMBER",
	"LATITUDE",
	"LONGITUDE",
	"JULD",
	"PRES",
	"PRES_QC",
	"TEMP",
	"TEMP_QC",
	"PSAL",
	"PSAL_QC",
	"DATA_MODE",
	DBNameVariable,
}

var phyFull = append(append([]string{}, phyQC...),
	"PRES_ADJUSTED",
	"PRES_ADJUSTED_ERROR",
	"TEMP_ADJUSTED",
	"TEMP_ADJUSTED_ERROR",
	"PSAL_ADJUSTED",
	"PSAL_ADJUSTED_ERROR",
)

var bgcQC = append(append([]string{}, phyQC...),
	"DOXY",
	"DOXY_QC",
	"CHLA",
	"CHLA_QC",
	"BBP700",
	"BBP700_QC",
	"NITRATE",
	"NITRATE_QC",
	"PH_IN_SITU_TOTAL",
	"PH_IN_SITU_TOTAL_QC",
	"SILICATE",
	"SILICATE_QC",
)

var bgcFull = append(append([]string{}, bgcQC...),
	"DOXY_ADJUSTED",
	"DOXY_ADJUSTED_ERROR",
	"CHLA_ADJUSTED",
	"NITRATE_ADJUSTED",
	"NITRATE_ADJUSTED_ERROR",
)

// Variables returns the admitted variable universe for a domain. With qcOnly
// the list is restricted to the quality-controlled variables; otherwise the
// adjusted/error companions are admitted too.
func Variables(domain Domain, qcOnly bool) []string {
	var src []string
	switch {
	case domain == PHY && qcOnly:
		src = phyQC
	case domain == PHY:
		src = phyFull
	case domain == BGC && qcOnly:
		src = bgcQC
	default:
		src = bgcFull
	}
	out := make([]string, len(src))
	copy(out, src)
	return out
}

// referenceUnits maps a variable family to its physical unit. Some entries
// cover multiple fields by prefix (BBP covers BBP700, TEMP covers
// TEMP_ADJUSTED and TEMP_ADJUSTED_ERROR).
var referenceUnits = map[string]string{
	"PLATFORM_NUMBER":  "identifier",
	"LATITUDE":         "degree_north",
	"LONGITUDE":        "degree_east",
	"JULD":             "UTC",
	"PRES":             "decibar",
	"TEMP":             "degree_Celsius",
	"PSAL":             "psu",
	"DOXY":             "micromole/kg",
	"CHLA":             "mg/m3",
	"BBP":              "m-1",
	"NITRATE":          "micromole/kg",
	"PH_IN_SITU_TOTAL": "dimensionless",
	"SILICATE":         "micromole/kg",
	DBNameVariable:     "identifier",
}

const (
	qcUnits       = "quality flag"
	dataModeUnits = "data mode"
)

// Units resolves the physical unit for a variable name. QC flags and data
// mode columns take their flag units regardless of family; everything else
// matches the reference table exactly or by its longest family prefix.
func Units(name string) (string, bool) {
	if strings.Contains(name, "QC") {
		return qcUnits, true
	}
	if strings.Contains(name, "DATA_MODE") {
		return dataModeUnits, true
	}
	if units, ok := referenceUnits[name]; ok {
		return units, true
	}
	best := ""
	for family := range referenceUnits {
		if strings.HasPrefix(name, family) && len(family) > len(best) {
			best = family
		}
	}
	if best != "" {
		return referenceUnits[best], true
	}
	return "", false
}
