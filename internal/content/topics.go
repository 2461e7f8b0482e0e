package content

import "fmt"

// ContentTypes are the fixed post-style enumerations. Every entry must have a
// template in promptTemplates.
var ContentTypes = []string{
	"breakthrough",
	"myth_buster",
	"quick_tip",
	"did_you_know",
	"prediction",
	"case_study",
	"tutorial",
	"thought_leader",
	"question",
	"hot_take",
	"code_snippet",
	"paper_insight",
	"tool_review",
	"challenge",
	"comparison",
	"warning",
	"success_metric",
}

// Topics are the fixed subject enumerations used for generation variety.
var Topics = []string{
	"neural networks", "transformers", "LLMs", "computer vision",
	"reinforcement learning", "MLOps", "AI ethics", "generative AI",
	"edge AI", "quantum ML", "federated learning", "AI in healthcare",
	"autonomous systems", "natural language processing", "AI bias",
	"explainable AI", "AI in cybersecurity", "multimodal AI", "AI efficiency",
	"prompt engineering", "AI agents", "RAG systems", "fine-tuning LLMs",
	"AI governance", "synthetic data", "AI sustainability", "distributed training",
	"AI in media", "AI in sports analytics", "AI in advertising",
}

var promptTemplates = map[string]string{
	"breakthrough":   "Share a recent breakthrough in %s in 200 characters. Make it exciting and accessible. Include 🚀",
	"myth_buster":    "Bust a common myth about %s in 200 characters. Start with 'Myth:' then 'Reality:'. Be educational.",
	"quick_tip":      "Share a practical tip about %s for ML practitioners in 200 characters. Make it actionable. Include 💡",
	"did_you_know":   "Share a fascinating fact about %s in 200 characters. Start with 'Did you know'. Make it surprising.",
	"prediction":     "Make a bold prediction about %s for the next 2 years in 200 characters. Be specific. Include 🔮",
	"case_study":     "Share a real-world success story using %s in 200 characters. Include concrete results. Use 📊",
	"tutorial":       "Explain one concept about %s in 200 characters. Make it beginner-friendly. Include 🎓",
	"thought_leader": "Share an industry insight about %s in 200 characters. Be authoritative and forward-thinking.",
	"question":       "Ask an engaging question about %s that sparks discussion in 200 characters. Make experts want to answer.",
	"hot_take":       "Share a controversial but defensible opinion about %s in 200 characters. Be respectful but bold. Include 🔥",
	"code_snippet":   "Share a powerful 3-line %s code snippet with explanation in 200 chars. Make it practical and runnable.",
	"paper_insight":  "Share a key finding from recent %s research in 200 chars. Cite the impact, not the paper. Include 📚",
	"tool_review":    "Recommend an underrated %s tool/library in 200 chars. Include specific use case. Add ⚡",
	"challenge":      "Pose a technical %s challenge for the community in 200 chars. Make experts think. Use 🧩",
	"comparison":     "Compare two %s approaches in 200 chars. Be fair but have a clear preference. Use VS.",
	"warning":        "Warn about a common %s mistake in 200 chars. Include the fix. Use ⚠️",
	"success_metric": "Share a key metric for measuring %s success in 200 chars. Be specific with numbers. Use 📈",
}

func promptFor(contentType, topic string) string {
	template, ok := promptTemplates[contentType]
	if !ok {
		template = promptTemplates["did_you_know"]
	}
	prompt := fmt.Sprintf(template, topic)
	return fmt.Sprintf("%s Make it unique and different from typical %s posts.", prompt, topic)
}
