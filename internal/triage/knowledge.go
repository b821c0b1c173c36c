package triage

import "strings"

// Static medical knowledge: the emergency keyword taxonomy and the
// symptom-to-department catalog. Both are initialized once at package load and
// never mutated afterwards, so they are shared read-only across all sessions
// without locking.

// EmergencyCategory labels the taxonomy bucket a keyword match came from.
type EmergencyCategory string

const (
	CategoryCardiac      EmergencyCategory = "cardiac"
	CategoryRespiratory  EmergencyCategory = "respiratory"
	CategoryNeurological EmergencyCategory = "neurological"
	CategoryBleeding     EmergencyCategory = "bleeding"
	CategoryTrauma       EmergencyCategory = "trauma"
	CategoryToxicology   EmergencyCategory = "toxicology"
	CategoryAllergic     EmergencyCategory = "allergic"
	CategoryMentalHealth EmergencyCategory = "mental_health"
)

// emergencyKeywords holds the phrases that force escalation regardless of
// model output. Phrases are stored lower-case; matching happens over the
// normalized message.
var emergencyKeywords = map[EmergencyCategory][]string{
	CategoryCardiac: {
		"heart attack",
		"cardiac arrest",
		"chest tightness",
		"chest pressure",
		"crushing chest pain",
	},
	CategoryRespiratory: {
		"can't breathe",
		"cannot breathe",
		"not breathing",
		"stopped breathing",
		"choking",
		"suffocating",
		"severe difficulty breathing",
	},
	CategoryNeurological: {
		"stroke",
		"face drooping",
		"sudden numbness",
		"sudden confusion",
		"sudden severe headache",
		"seizure",
		"convulsions",
		"unconscious",
		"unresponsive",
		"loss of consciousness",
		"passed out",
		"fainted and not waking",
	},
	CategoryBleeding: {
		"severe bleeding",
		"uncontrollable bleeding",
		"won't stop bleeding",
		"hemorrhage",
		"coughing blood",
		"vomiting blood",
	},
	CategoryTrauma: {
		"severe burn",
		"major accident",
		"head injury",
		"spinal injury",
		"broken neck",
	},
	CategoryToxicology: {
		"poisoning",
		"overdose",
		"swallowed poison",
		"drug overdose",
	},
	CategoryAllergic: {
		"anaphylaxis",
		"anaphylactic shock",
		"severe allergic reaction",
		"throat swelling",
		"tongue swelling",
	},
	CategoryMentalHealth: {
		"suicidal",
		"want to kill myself",
		"ending my life",
		"self harm",
	},
}

// Department is one of the hospital's fixed catalog of departments.
type Department string

const (
	DeptCardiology       Department = "Cardiology"
	DeptNeurology        Department = "Neurology"
	DeptOrthopedics      Department = "Orthopedics"
	DeptGastroenterology Department = "Gastroenterology"
	DeptPulmonology      Department = "Pulmonology"
	DeptDermatology      Department = "Dermatology"
	DeptENT              Department = "ENT (Ear, Nose & Throat)"
	DeptOphthalmology    Department = "Ophthalmology"
	DeptPediatrics       Department = "Pediatrics"
	DeptPsychiatry       Department = "Psychiatry"
	DeptGeneralMedicine  Department = "General Medicine"
	DeptUrology          Department = "Urology"
	DeptGynecology       Department = "Gynecology"
	DeptEmergencyMed     Department = "Emergency Medicine"
)

// departmentInfo describes one department for routing and prompt assembly.
type departmentInfo struct {
	description string
	symptoms    []string
}

var departmentCatalog = map[Department]departmentInfo{
	DeptCardiology: {
		description: "Heart and cardiovascular system",
		symptoms: []string{
			"chest pain", "heart palpitations", "high blood pressure",
			"irregular heartbeat", "shortness of breath with chest discomfort",
			"swollen legs", "dizziness with chest pain",
		},
	},
	DeptNeurology: {
		description: "Brain, spinal cord, and nervous system",
		symptoms: []string{
			"headache", "migraine", "dizziness", "vertigo", "numbness",
			"tingling", "memory loss", "tremors", "balance problems",
			"blurred vision", "speech difficulty",
		},
	},
	DeptOrthopedics: {
		description: "Bones, joints, and musculoskeletal system",
		symptoms: []string{
			"joint pain", "bone pain", "back pain", "fracture",
			"sprain", "muscle pain", "stiffness", "swollen joints",
			"difficulty walking", "knee pain", "shoulder pain",
		},
	},
	DeptGastroenterology: {
		description: "Digestive system and gastrointestinal tract",
		symptoms: []string{
			"stomach pain", "abdominal pain", "nausea", "vomiting",
			"diarrhea", "constipation", "bloating", "acid reflux",
			"heartburn", "loss of appetite", "blood in stool",
		},
	},
	DeptPulmonology: {
		description: "Lungs and respiratory system",
		symptoms: []string{
			"cough", "persistent cough", "wheezing", "shortness of breath",
			"breathing difficulty", "asthma", "chest congestion",
			"mucus production",
		},
	},
	DeptDermatology: {
		description: "Skin, hair, and nail conditions",
		symptoms: []string{
			"skin rash", "itching", "acne", "eczema", "psoriasis",
			"skin lesion", "hives", "skin discoloration", "mole changes",
			"hair loss",
		},
	},
	DeptENT: {
		description: "Ear, nose, throat, and related structures",
		symptoms: []string{
			"ear pain", "hearing loss", "ringing in ears", "sore throat",
			"sinus pain", "nasal congestion", "nosebleed", "difficulty swallowing",
			"hoarse voice", "tonsillitis",
		},
	},
	DeptOphthalmology: {
		description: "Eyes and vision",
		symptoms: []string{
			"eye pain", "blurred vision", "double vision", "red eyes",
			"eye discharge", "vision loss", "floaters", "light sensitivity",
		},
	},
	DeptPediatrics: {
		description: "Medical care for infants, children, and adolescents",
		symptoms: []string{
			"child fever", "child rash", "child cough",
			"child vomiting", "child diarrhea", "child not eating",
			"child crying", "child ear infection",
		},
	},
	DeptPsychiatry: {
		description: "Mental health and behavioral conditions",
		symptoms: []string{
			"anxiety", "depression", "insomnia", "panic attacks",
			"mood swings", "stress", "hallucinations", "paranoia",
			"obsessive thoughts", "eating disorder",
		},
	},
	DeptGeneralMedicine: {
		description: "General health concerns and primary care",
		symptoms: []string{
			"fever", "fatigue", "weakness", "weight loss", "weight gain",
			"body aches", "chills", "sweating", "general discomfort",
			"cold", "flu", "infection",
		},
	},
	DeptUrology: {
		description: "Urinary tract and male reproductive system",
		symptoms: []string{
			"painful urination", "frequent urination", "blood in urine",
			"kidney pain", "urinary incontinence",
		},
	},
	DeptGynecology: {
		description: "Female reproductive system",
		symptoms: []string{
			"menstrual irregularity", "pelvic pain", "vaginal discharge",
			"pregnancy concerns", "menstrual cramps",
		},
	},
	DeptEmergencyMed: {
		description: "Life-threatening and critical conditions",
		symptoms: []string{
			"severe pain", "high fever unresponsive to medication",
			"sudden collapse", "severe trauma",
		},
	},
}

// departmentPriority fixes the deterministic tie-break order for routing.
// Earlier entries win ties; general medicine is always last.
var departmentPriority = []Department{
	DeptCardiology,
	DeptNeurology,
	DeptEmergencyMed,
	DeptPulmonology,
	DeptGastroenterology,
	DeptOrthopedics,
	DeptPediatrics,
	DeptPsychiatry,
	DeptDermatology,
	DeptENT,
	DeptOphthalmology,
	DeptUrology,
	DeptGynecology,
	DeptGeneralMedicine,
}

// pediatricIndicators mark a message as concerning a child.
var pediatricIndicators = []string{
	"child", "kid", "baby", "infant", "toddler", "son", "daughter",
}

// DepartmentCatalogSummary renders the catalog for the model's system prompt.
func DepartmentCatalogSummary() string {
	var b strings.Builder
	for _, dept := range departmentPriority {
		info := departmentCatalog[dept]
		examples := info.symptoms
		if len(examples) > 5 {
			examples = examples[:5]
		}
		b.WriteString("- ")
		b.WriteString(string(dept))
		b.WriteString(": ")
		b.WriteString(info.description)
		b.WriteString(" (e.g. ")
		b.WriteString(strings.Join(examples, ", "))
		b.WriteString(")\n")
	}
	return strings.TrimRight(b.String(), "\n")
}

// KnownDepartment reports whether name matches a catalog department,
// ignoring case.
func KnownDepartment(name string) (Department, bool) {
	for dept := range departmentCatalog {
		if strings.EqualFold(string(dept), name) {
			return dept, true
		}
	}
	return "", false
}
