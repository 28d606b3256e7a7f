package rag

import "fmt"

// emptyQueryAnswer is returned without calling generation when the query
// produced no embedding.
const emptyQueryAnswer = "I cannot process an empty query."

// buildPrompt embeds the retrieved context and the question verbatim. The
// template instructs the model to prioritize the context, fall back to
// general knowledge when it is insufficient, and always answer in Spanish.
func buildPrompt(contextText, question string) string {
	return fmt.Sprintf(`Eres un asistente útil que responde preguntas.
Prioriza la información del Contexto proporcionado para responder a la pregunta.
Si la información en el Contexto no es suficiente para responder la pregunta, utiliza tus conocimientos generales.
Responde siempre en español.

Contexto:
%s

Pregunta: %s
Respuesta:`, contextText, question)
}
