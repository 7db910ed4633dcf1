package llm

import "fmt"

// analysisPromptTemplate asks for a plain-text report in Czech. The
// placeholder receives the formatted incident overview produced by the
// report package.
const analysisPromptTemplate = `Jsi expert na kybernetickou bezpečnost.

Na základě těchto Wazuh incidentů napiš analýzu a doporučení v PROSTÉM TEXTU (ne JSON).

%s

Napiš odpověď ve formátu:

STRUČNÁ ANALÝZA WAZUH INCIDENTŮ

[2-3 odstavce sumarizující bezpečnostní situaci]

STRATEGICKÁ DOPORUČENÍ

1. [První strategické doporučení]
2. [Druhé strategické doporučení]
3. [Třetí strategické doporučení]
4. [Čtvrté strategické doporučení]
5. [Páté strategické doporučení]

TAKTICKÁ A TECHNICKÁ DOPORUČENÍ

1. [První taktické doporučení - konkrétní IP adresy a servery]
2. [Druhé taktické doporučení]
3. [Třetí taktické doporučení]
4. [Čtvrté taktické doporučení]
5. [Páté taktické doporučení]

Používej konkrétní data - IP adresy, názvy serverů, čísla z analýzy.
`

// BuildAnalysisPrompt embeds the formatted incident data into the
// analysis prompt.
func BuildAnalysisPrompt(formattedData string) string {
	return fmt.Sprintf(analysisPromptTemplate, formattedData)
}
