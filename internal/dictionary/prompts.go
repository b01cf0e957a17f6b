package dictionary

import "fmt"

// Prompt keys recorded with every oracle call.
const (
	PromptKeyDefineTerm        = "dictionary.define_term"
	PromptKeyDisambiguateClick = "dictionary.disambiguate_click"
	PromptKeyDefineInContext   = "dictionary.define_in_context"
)

const defineTermSystemPrompt = `Provide a formal definition to the term given in the user message. Give only the definition. Do not use the term in the definition. Do not use square brackets. A formal definition consists of 1. The class of object or concept to which the term belongs and 2. The differentiating characteristics that distinguish it from all others of its class.`

const disambiguateClickSystemPrompt = `Context:
This definition will be used in an interactive dictionary. When a user clicks on a word the website will route the user to the definition of the object clicked not just the word clicked.

Task:
You will be provided a definition. This definition will have a word inside of square brackets "[]", this word is the clicked word. Based on the clicked word and context clues determine what other words from the definition should be added, if any, to the word to properly determine what object the user wants to define.

Do not include "Output:" in your output. Do not explain your answer. Only use words which exist in the definition, in the order they appear.

Examples as input output pairs:

A [tree] data structure in which each internal node has exactly four children, used primarily in the partitioning of a two-dimensional space by recursively subdividing it into four quadrants or regions.
=>
Tree data structure

A field in mathematics, specifically in abstract [algebra], that contains a finite number of elements, with both addition and multiplication operations, named after the French mathematician Evariste Galois.
=>
Algebra

The action or process of stimulating someone or something, often by encouraging increased activity or enhancing responsiveness through [physical] or chemical intervention.
=>
Physical intervention

The skillful handling of a difficult or [delicate] situation without arousing hostility, often by employing subtle tactical movements or arguments.
=>
Delicate`

const defineInContextSystemPrompt = `Context:
The definition you provide will be used in an interactive dictionary website. When a user clicks on a word, the website will route the user to the definition of the term and will automatically display a relevant definition to the context.

Task:
You will be provided with a term and a context which uses said term. What you will provide is a formal definition for this term. If there are many different definitions for a term provide the one which corresponds to the context. Provide up to 100 words. Only output the definition to the term, do not use the term in your definition, do not use square brackets, and do not mention the usage of the term in your definition.
A formal definition consists of:
1. The class of object or concept to which the term belongs
2. The differentiating characteristics that distinguish it from all others of its class.`

func defineInContextUserPrompt(term Term, key ClickedSpanKey) string {
	return fmt.Sprintf("Term: %q\nContext: %s", string(term), string(key))
}
