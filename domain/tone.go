package domain

// Tone is a coarse label describing the affect of an incoming message.
// It is computed per message and used only transiently during scheduling.
type Tone string

const (
	TonePolite     Tone = "polite"
	ToneRude       Tone = "rude"
	ToneCurious    Tone = "curious"
	ToneEmotional  Tone = "emotional"
	ToneAnalytical Tone = "analytical"
	ToneCreative   Tone = "creative"
	ToneSarcastic  Tone = "sarcastic"
	ToneNeutral    Tone = "neutral"
)

var tones = map[Tone]struct{}{
	TonePolite:     {},
	ToneRude:       {},
	ToneCurious:    {},
	ToneEmotional:  {},
	ToneAnalytical: {},
	ToneCreative:   {},
	ToneSarcastic:  {},
	ToneNeutral:    {},
}

func (t Tone) Valid() bool {
	_, ok := tones[t]
	return ok
}
