package widget

import (
	"strings"
)

// rule maps keyword groups to a canned bot answer. Matching is plain
// lowercase substring search — the bot is intentionally local and simple,
// anything it cannot answer is routed to live support.
type rule struct {
	keywords []string
	reply    string
}

var defaultRules = []rule{
	{
		keywords: []string{"pret", "cost", "tarif"},
		reply: "Prețul unei instalații depinde de puterea sistemului și de acoperiș. " +
			"Pentru o estimare exactă, trimiteți o cerere de ofertă din contul dvs. " +
			"sau alegeți «Vorbește cu un consultant».",
	},
	{
		keywords: []string{"panou", "panouri", "putere", "kw"},
		reply: "Instalăm sisteme fotovoltaice între 3 și 100 kW, pentru case și " +
			"spații comerciale. Găsiți proiectele noastre recente în secțiunea Proiecte.",
	},
	{
		keywords: []string{"finantare", "rate", "credit", "casa verde"},
		reply: "Lucrăm cu programul Casa Verde și oferim finanțare în rate prin " +
			"băncile partenere. Detalii în pagina Finanțare.",
	},
	{
		keywords: []string{"garantie", "mentenanta", "service"},
		reply: "Panourile au garanție de producție de 25 de ani, iar manopera " +
			"este garantată 5 ani. Pentru intervenții, creați o cerere de service din cont.",
	},
	{
		keywords: []string{"program", "orar", "contact", "telefon"},
		reply: "Suntem disponibili luni–vineri, 09:00–18:00. Ne puteți scrie " +
			"oricând aici sau prin formularul de contact.",
	},
	{
		keywords: []string{"durata", "cat dureaza", "instalare", "montaj"},
		reply: "O instalație rezidențială tipică durează 2–3 zile de montaj, " +
			"plus avizele de racordare. Vă ghidăm prin tot procesul.",
	},
}

const fallbackReply = "Nu am un răspuns pregătit pentru asta. " +
	"Alegeți «Vorbește cu un consultant» și un coleg vă preia conversația."

// Bot is the fully local pattern-matching responder behind the widget's
// bot mode.
type Bot struct {
	rules []rule
}

func NewBot() *Bot {
	return &Bot{rules: defaultRules}
}

// Reply returns the canned answer for the first matching rule. The second
// result is false when only the fallback applied, which the widget uses to
// suggest live support.
func (b *Bot) Reply(text string) (string, bool) {
	normalized := strings.ToLower(strings.TrimSpace(text))
	if normalized == "" {
		return fallbackReply, false
	}

	for _, r := range b.rules {
		for _, kw := range r.keywords {
			if strings.Contains(normalized, kw) {
				return r.reply, true
			}
		}
	}
	return fallbackReply, false
}
