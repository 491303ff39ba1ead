package coverage

import (
	"strings"

	"github.com/dcortinas/fablink-backend/pkg/db/models"
	"github.com/dcortinas/fablink-backend/pkg/enums"
)

const (
	strongThreshold   = 12
	moderateThreshold = 5

	strongMaterialFloor   = 6
	moderateMaterialFloor = 2
)

// Estimate classifies expected supplier coverage for a request.
type Estimate struct {
	Level  enums.CoverageLevel `json:"level"`
	Label  string              `json:"label"`
	Helper string              `json:"helper"`
	Debug  Debug               `json:"-"`
}

// Debug carries the raw counts behind an estimate. Internal only, never
// shown to the customer.
type Debug struct {
	MatchingByProcess            int  `json:"matching_by_process"`
	MatchingByProcessAndMaterial int  `json:"matching_by_process_and_material"`
	MaterialRequested            bool `json:"material_requested"`
	MaterialSignalAvailable      bool `json:"material_signal_available"`
}

// Compute scans the provided directory slice and buckets coverage.
// Returns nil when no process is given: confidence is undefined without
// one. Providers hidden from the directory never count, whatever their
// other flags say. materialData reports whether the deployment's schema
// carries material tags at all.
func Compute(process, material string, providerRows []models.Provider, materialData bool) *Estimate {
	process = normalizeTag(process)
	if process == "" {
		return nil
	}
	material = strings.ToLower(strings.TrimSpace(material))

	byProcess := 0
	byProcessAndMaterial := 0
	for _, provider := range providerRows {
		if !provider.IsActive || provider.VerificationStatus != enums.VerificationStatusVerified || !provider.ShowInDirectory {
			continue
		}
		if !matchesProcess(provider, process) {
			continue
		}
		byProcess++
		if material != "" && materialData && matchesMaterial(provider, material) {
			byProcessAndMaterial++
		}
	}

	level := enums.CoverageLevelLimited
	switch {
	case byProcess >= strongThreshold:
		level = enums.CoverageLevelStrong
	case byProcess >= moderateThreshold:
		level = enums.CoverageLevelModerate
	}

	if material != "" {
		if materialData {
			switch {
			case byProcessAndMaterial == 0:
				level = enums.CoverageLevelLimited
			case level == enums.CoverageLevelStrong && byProcessAndMaterial < strongMaterialFloor:
				level = enums.CoverageLevelModerate
			case level == enums.CoverageLevelModerate && byProcessAndMaterial < moderateMaterialFloor:
				level = enums.CoverageLevelLimited
			}
		} else if level == enums.CoverageLevelStrong {
			// Cannot verify strong confidence against a criterion the
			// schema does not record.
			level = enums.CoverageLevelModerate
		}
	}

	estimate := &Estimate{
		Level: level,
		Debug: Debug{
			MatchingByProcess:            byProcess,
			MatchingByProcessAndMaterial: byProcessAndMaterial,
			MaterialRequested:            material != "",
			MaterialSignalAvailable:      materialData,
		},
	}
	estimate.Label, estimate.Helper = describe(level)
	return estimate
}

func matchesProcess(provider models.Provider, process string) bool {
	for _, tag := range provider.Processes {
		if normalizeTag(tag) == process {
			return true
		}
	}
	return false
}

func matchesMaterial(provider models.Provider, material string) bool {
	for _, tag := range provider.Materials {
		if strings.Contains(strings.ToLower(tag), material) {
			return true
		}
	}
	return false
}

// normalizeTag folds case and separator noise so "CNC Milling",
// "cnc-milling", and "cnc_milling" all compare equal.
func normalizeTag(value string) string {
	value = strings.ToLower(strings.TrimSpace(value))
	value = strings.ReplaceAll(value, "-", "_")
	value = strings.ReplaceAll(value, " ", "_")
	return value
}

func describe(level enums.CoverageLevel) (label, helper string) {
	switch level {
	case enums.CoverageLevelStrong:
		return "Strong coverage", "Many qualified suppliers match this request. Expect several competitive bids."
	case enums.CoverageLevelModerate:
		return "Moderate coverage", "A solid group of suppliers matches this request. Expect a few bids."
	default:
		return "Limited coverage", "Few suppliers match this request right now. We will reach out to our network, but responses may take longer."
	}
}
