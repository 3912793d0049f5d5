package agent

import (
	"fmt"
	"strings"

	"github.com/dotvoice/dot/pkg/vault"
)

// The fixed prompts are exposed as pure functions returning fresh strings
// rather than shared mutable state.

// correctionSystemPrompt returns the fixed system prompt for the
// transcript-correction pass.
func correctionSystemPrompt() string {
	return `Sei un esperto correttore di trascrizioni vocali italiane.

Il tuo compito è correggere errori di trascrizione automatica mantenendo il significato originale.

Correzioni da fare:
- Parole mal riconosciute dal sistema di trascrizione
- Errori grammaticali dovuti alla trascrizione automatica
- Punteggiatura mancante o errata
- Maiuscole appropriate (nomi propri, inizio frasi)
- Parole incomplete o frammentate

IMPORTANTE:
- NON aggiungere informazioni che non ci sono
- NON cambiare il significato originale
- NON rimuovere dettagli importanti
- Mantieni lo stile colloquiale se presente
- Se una parola sembra tecnica o è un nome proprio, mantienila anche se sembra strana

Rispondi SOLO con il testo corretto, senza commenti o spiegazioni.`
}

// correctionUserPrompt wraps the raw transcript for the correction pass.
func correctionUserPrompt(transcript string) string {
	return fmt.Sprintf(
		"Trascrizione automatica da correggere:\n\n---\n%s\n---\n\nCorreggi eventuali errori mantenendo il significato originale.",
		transcript,
	)
}

// generationSystemPrompt builds the note-generation system prompt. When the
// vault already contains notes, a context block enumerating each one by
// title and filename stem is prepended, and the model is instructed to use
// stems, never titles, for wiki-links and related_notes entries.
func generationSystemPrompt(existing []vault.NoteMeta) string {
	var prompt strings.Builder

	// Existing notes context first, so the model sees them prominently.
	if len(existing) > 0 {
		prompt.WriteString("## NOTE ESISTENTI NEL SISTEMA\n\n")
		prompt.WriteString("Queste sono le note già presenti nel vault, nel formato **Titolo** (`identificatore`). ")
		prompt.WriteString("DEVI usare l'identificatore (NON il titolo) per i link interni e per related_notes.\n\n")

		for _, meta := range existing {
			fmt.Fprintf(&prompt, "- **%s** (`%s`)", meta.Title, meta.Stem())
			if meta.Date != "" {
				fmt.Fprintf(&prompt, " (%s)", meta.Date)
			}
			if len(meta.Tags) > 0 {
				fmt.Fprintf(&prompt, " [%s]", strings.Join(meta.Tags, ", "))
			}
			prompt.WriteString("\n")
		}
		prompt.WriteString("\n")
	}

	prompt.WriteString(`Sei un assistente esperto nella creazione di note strutturate per un sistema di gestione della conoscenza personale (second brain) in Obsidian.

Il tuo compito è:
1. Analizzare la trascrizione di un messaggio vocale
2. Identificare i concetti chiave, idee e informazioni importanti
3. Creare una o più note in formato Markdown ben strutturate

Regole per la creazione delle note:
- Se la trascrizione contiene più argomenti distinti, crea note separate per ciascuno
- Ogni nota deve avere un titolo chiaro e descrittivo
- Struttura il contenuto con headers (##), elenchi puntati e formattazione appropriata
- Suggerisci 2-5 tag rilevanti per ogni nota (senza spazi: usa trattini)
- Mantieni il tono e l'intento originale del messaggio
- Se ci sono task o azioni da fare, evidenziali chiaramente

## LINK INTERNI (OBBLIGATORIO)

Questa è una funzionalità CRITICA. Devi creare collegamenti tra le note usando la sintassi Obsidian ` + "`[[identificatore]]`" + `.

### Regole per i link inline nel contenuto:
- Quando nel contenuto fai riferimento a un concetto che corrisponde a una nota esistente, DEVI racchiuderlo in ` + "`[[identificatore]]`" + ` usando l'identificatore ESATTO dalla lista delle note esistenti
- Inserisci i link in modo naturale nel testo, non forzarli dove non hanno senso

### Regole per related_notes:
- DEVI popolare il campo "related_notes" con gli identificatori ESATTI delle note esistenti che sono tematicamente correlate
- Controlla i tag in comune e gli argomenti affini per identificare le correlazioni
- Non lasciare "related_notes" vuoto se ci sono note esistenti pertinenti

### Regole per note multiple dalla stessa trascrizione:
- Se crei più note dalla stessa trascrizione, DEVI farle riferimento tra loro con [[link]] nel contenuto
- Ogni nota deve menzionare le altre note generate nello stesso batch dove pertinente

Formato di output: JSON valido con chiave "notes", un array di oggetti con campi:
- "title" (stringa)
- "content" (markdown — DEVE contenere [[link]] a note esistenti e note sorelle dove pertinente)
- "tags" (array di stringhe)
- "related_notes" (array di stringhe — identificatori ESATTI di note correlate, NON lasciare vuoto se ci sono correlazioni)

Rispondi SOLO con il JSON, senza testo aggiuntivo prima o dopo.`)

	return prompt.String()
}

// generationUserPrompt wraps the cleaned transcript for the note-generation
// pass.
func generationUserPrompt(transcript string) string {
	return fmt.Sprintf(
		"Trascrizione del messaggio vocale:\n\n---\n%s\n---\n\nCrea note strutturate da questa trascrizione.",
		transcript,
	)
}
