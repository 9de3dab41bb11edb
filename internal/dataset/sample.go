package dataset

import "github.com/nao1215/darkcti/internal/model"

// defaultSources are the dark web search engines the search claims to query.
var defaultSources = []model.Source{
	{
		Name:        "Ahmia",
		URL:         "juhanurmihxlp77nkq76byazcldy2hlmovfu2epvl5ankdibsot4csyd.onion",
		Description: "Clean, filtered dark web search engine",
		Status:      model.SourceStatusActive,
		Type:        model.SourceTypeSearchEngine,
	},
	{
		Name:        "Torch",
		URL:         "xmh57jrknzkhv6y3ls3ubitzfqnkrwxhopf5aygthi7d6rplyvk3noyd.onion",
		Description: "Oldest and most comprehensive dark web search",
		Status:      model.SourceStatusActive,
		Type:        model.SourceTypeSearchEngine,
	},
	{
		Name:        "Haystak",
		URL:         "haystak5njsmn2hqkewecpaxetahtwhsbsa64jom2k22z5afxhnpxfid.onion",
		Description: "Over 1.5 billion pages indexed",
		Status:      model.SourceStatusActive,
		Type:        model.SourceTypeSearchEngine,
	},
	{
		Name:        "NotEvil",
		URL:         "hss3uro2hsxfogfq.onion",
		Description: "Uncensored dark web search engine",
		Status:      model.SourceStatusActive,
		Type:        model.SourceTypeSearchEngine,
	},
	{
		Name:        "DuckDuckGo Onion",
		URL:         "3g2upl4pq6kufc4m.onion",
		Description: "Privacy-focused search with dark web access",
		Status:      model.SourceStatusActive,
		Type:        model.SourceTypeSearchEngine,
	},
}

// defaultIOCs are the sample indicators. Order matters: the first two are the
// fallback when nothing matches.
var defaultIOCs = []model.IOC{
	{
		Type:        model.IOCTypeIP,
		Value:       "185.220.101.45",
		Description: "C&C server for Locky ransomware",
		ThreatLevel: model.ThreatLevelHigh,
		FirstSeen:   "2024-01-15",
		Source:      "Ahmia forum analysis",
	},
	{
		Type:        model.IOCTypeDomain,
		Value:       "darkmarket[.]onion",
		Description: "Compromised credentials marketplace",
		ThreatLevel: model.ThreatLevelCritical,
		FirstSeen:   "2024-02-01",
		Source:      "Torch marketplace monitoring",
	},
	{
		Type:        model.IOCTypeHash,
		Value:       "a1b2c3d4e5f6789012345678901234567890abcd",
		Description: "Banking trojan payload",
		ThreatLevel: model.ThreatLevelHigh,
		FirstSeen:   "2024-01-20",
		Source:      "Haystak malware analysis",
	},
	{
		Type:        model.IOCTypeBitcoin,
		Value:       "1BvBMSEYstWetqTFn5Au4m4GFg7xJaNVN2",
		Description: "Ransomware payment wallet",
		ThreatLevel: model.ThreatLevelMedium,
		FirstSeen:   "2024-01-25",
		Source:      "NotEvil financial tracking",
	},
}

// defaultActors are the sample threat actor profiles. The first one is the
// fallback when nothing matches.
var defaultActors = []model.ThreatActor{
	{
		Name:           "TA505",
		Aliases:        []string{"Dridex Group", "Locky Group"},
		Motivation:     "Financial gain",
		Targets:        []string{"Financial institutions", "Healthcare", "Retail"},
		Geography:      []string{"Global", "Focus on US/Europe"},
		TTPs:           []string{"Phishing", "Banking trojans", "Ransomware"},
		ActivityLevel:  model.ActivityLevelHigh,
		Sophistication: "advanced",
	},
	{
		Name:           "APT41",
		Aliases:        []string{"Winnti Group", "Barium"},
		Motivation:     "Espionage and financial gain",
		Targets:        []string{"Healthcare", "Telecommunications", "Technology"},
		Geography:      []string{"China-based", "Global targeting"},
		TTPs:           []string{"Supply chain attacks", "Zero-day exploits", "Living off the land"},
		ActivityLevel:  model.ActivityLevelHigh,
		Sophistication: "nation-state",
	},
	{
		Name:           "REvil",
		Aliases:        []string{"Sodinokibi", "RaaS Group"},
		Motivation:     "Financial gain",
		Targets:        []string{"Large enterprises", "Critical infrastructure"},
		Geography:      []string{"Russia/CIS", "Global victims"},
		TTPs:           []string{"Ransomware as a Service", "Double extortion", "Supply chain"},
		ActivityLevel:  model.ActivityLevelMedium,
		Sophistication: "advanced",
	},
}

// defaultQueries are offered to users as one-click example searches.
var defaultQueries = []string{
	"Latest ransomware targeting financial institutions",
	"APT41 new campaigns 2024",
	"Banking trojan IOCs Q1 2024",
	"Cryptocurrency wallet compromises",
	"Healthcare data breaches underground markets",
	"Zero-day exploits for sale",
	"Nation-state attribution indicators",
	"Supply chain attack vectors",
	"Insider threat indicators",
	"Critical infrastructure targeting",
}
