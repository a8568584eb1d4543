package llm

import (
	"testing"

	"github.com/google/generative-ai-go/genai"
)

func partsText(c *genai.Content) []string {
	var out []string
	for _, p := range c.Parts {
		if t, ok := p.(genai.Text); ok {
			out = append(out, string(t))
		}
	}
	return out
}

func TestToContents_OnlyNextStep(t *testing.T) {
	t.Parallel()

	contents, err := toContents([]Message{{Role: RoleUser, Content: "What's your next step?"}})
	if err != nil {
		t.Fatalf("toContents error = %v", err)
	}
	if len(contents) != 1 || contents[0].Role != "user" {
		t.Fatalf("contents = %+v", contents)
	}
}

func TestToContents_MergesAndOpensWithUser(t *testing.T) {
	t.Parallel()

	msgs := []Message{
		{Role: RoleAssistant, Content: "Do you like dosa?"},
		{Role: RoleUser, Content: "Yes"},
		{Role: RoleAssistant, Content: "Monsoon?"},
		{Role: RoleUser, Content: "No"},
		{Role: RoleUser, Content: "What's your next step?"},
	}
	contents, err := toContents(msgs)
	if err != nil {
		t.Fatalf("toContents error = %v", err)
	}

	wantRoles := []string{"user", "model", "user", "model", "user"}
	if len(contents) != len(wantRoles) {
		t.Fatalf("len = %d, want %d", len(contents), len(wantRoles))
	}
	for i, r := range wantRoles {
		if contents[i].Role != r {
			t.Errorf("contents[%d].Role = %q, want %q", i, contents[i].Role, r)
		}
	}
	if got := partsText(contents[0]); len(got) != 1 || got[0] != openingTurn {
		t.Errorf("opening = %v", got)
	}
	if got := partsText(contents[4]); len(got) != 2 || got[0] != "No" || got[1] != "What's your next step?" {
		t.Errorf("last = %v", got)
	}
}

func TestToContents_Rejects(t *testing.T) {
	t.Parallel()

	if _, err := toContents(nil); err == nil {
		t.Error("empty transcript should fail")
	}
	if _, err := toContents([]Message{{Role: RoleAssistant, Content: "Q?"}}); err == nil {
		t.Error("transcript ending with the model should fail")
	}
}

func TestGetText(t *testing.T) {
	t.Parallel()

	if got := getText(nil); got != "" {
		t.Errorf("getText(nil) = %q", got)
	}
	resp := &genai.GenerateContentResponse{Candidates: []*genai.Candidate{{
		Content: &genai.Content{Parts: []genai.Part{genai.Text("QUESTION: "), genai.Text("Chai?")}},
	}}}
	if got := getText(resp); got != "QUESTION: Chai?" {
		t.Errorf("getText = %q", got)
	}
}
