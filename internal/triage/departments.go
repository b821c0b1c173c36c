package triage

import "strings"

// RouteDepartment maps an accumulated symptom set to a department. The
// function is pure: no I/O, no side effects, and deterministic for identical
// input.
//
// Policy, in order:
//  1. Pediatric override: a child patient routes to pediatrics unless any
//     symptom carries an emergency-tier keyword, in which case emergency
//     medicine wins.
//  2. Each symptom votes for every department whose catalog keywords it
//     contains; the department with the most votes wins.
//  3. Ties break by the fixed priority order, general medicine last.
//  4. No votes at all routes to general medicine.
func RouteDepartment(symptoms []string, mentionsChild bool) Department {
	if mentionsChild {
		for _, symptom := range symptoms {
			if len(ScanEmergencyKeywords(symptom)) > 0 {
				return DeptEmergencyMed
			}
		}
		return DeptPediatrics
	}

	votes := make(map[Department]int)
	for _, symptom := range symptoms {
		normalized := normalizeText(symptom)
		if normalized == "" {
			continue
		}
		for dept, info := range departmentCatalog {
			for _, keyword := range info.symptoms {
				if strings.Contains(normalized, keyword) {
					votes[dept]++
					break
				}
			}
		}
	}

	if len(votes) == 0 {
		return DeptGeneralMedicine
	}

	best := DeptGeneralMedicine
	bestVotes := 0
	for _, dept := range departmentPriority {
		if votes[dept] > bestVotes {
			best = dept
			bestVotes = votes[dept]
		}
	}
	return best
}
