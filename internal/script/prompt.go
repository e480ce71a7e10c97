package script

import (
	"fmt"
	"regexp"
	"strings"
)

// systemPrompt steers every provider toward the same script shape. The
// duration and pitch-drop bands here are guidance for the generator; the
// resolver downstream accepts whatever comes back.
const systemPrompt = `You are a scriptwriter for short-form vertical video narration. You write tight, factual-sounding, slightly unhinged scripts that hook viewers in the first sentence and land on a hard punchline.

Rules:
- 100 to 170 words total. The narration is sped up 1.2x after synthesis and the finished audio must stay under 40 seconds.
- Open with a hook that creates an information gap. No greetings, no throat-clearing.
- Escalate: each beat should raise the stakes or the absurdity of the previous one.
- Close with a final punchline that recontextualizes everything before it.
- Pick 3 to 6 pitch drops: short phrases of 1 to 3 words, quoted verbatim from the narration, where the voice should drop dramatically. Favor concrete, punchy words at the end of sentences.
- Pitch drops use semitone offsets between -3 and -6 and should land at least 2 seconds apart in the spoken flow.
- Plain spoken text only in full_script: no stage directions, no emoji, no markup.`

const userPromptTemplate = `Write a short-form video script about: {{topic}}
{{past_performance}}
Fill every field of the output schema. full_script must read as one continuous narration assembled from the beats.`

var variablePattern = regexp.MustCompile(`\{\{(\w+)\}\}`)

// renderPrompt replaces {{variable}} placeholders with values from vars.
// Every placeholder in the template must have a value.
func renderPrompt(template string, vars map[string]string) (string, error) {
	var missing []string
	for _, m := range variablePattern.FindAllStringSubmatch(template, -1) {
		if _, ok := vars[m[1]]; !ok {
			missing = append(missing, m[1])
		}
	}
	if len(missing) > 0 {
		return "", fmt.Errorf("missing template variables: %s", strings.Join(missing, ", "))
	}
	return variablePattern.ReplaceAllStringFunc(template, func(match string) string {
		return vars[match[2:len(match)-2]]
	}), nil
}

// buildUserPrompt renders the generation prompt for one request.
func buildUserPrompt(req Request) (string, error) {
	past := ""
	if req.PastContext != "" {
		past = "\nContext from past runs on similar topics:\n" + req.PastContext + "\n"
	}
	return renderPrompt(userPromptTemplate, map[string]string{
		"topic":            req.Topic,
		"past_performance": past,
	})
}
