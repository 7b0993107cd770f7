package mk3

// Element identifies a single addressable control on the controller
// surface: a button, a knob, the main encoder or one of the audio level
// pots. It is the vocabulary shared by the event layer and the LED API.
type Element uint8

const (
	ElementUnknown Element = iota

	// Transport controls.
	Play
	Rec
	Stop
	Restart
	Erase
	Tap
	Follow

	// Group buttons A-H.
	GroupA
	GroupB
	GroupC
	GroupD
	GroupE
	GroupF
	GroupG
	GroupH

	// Mode buttons.
	Notes
	Volume
	Swing
	Tempo
	NoteRepeat
	Lock
	PadMode
	Keyboard
	Chords
	Step
	FixedVel
	Scene
	Pattern
	Events

	// Navigation.
	Variation
	Duplicate
	Select
	Solo
	Mute
	Pitch
	Mod
	Perform

	// Encoder and shift.
	Shift
	EncoderPush
	EncoderUp
	EncoderDown
	EncoderLeft
	EncoderRight

	// Display row buttons.
	DisplayButton1
	DisplayButton2
	DisplayButton3
	DisplayButton4
	DisplayButton5
	DisplayButton6
	DisplayButton7
	DisplayButton8

	// System buttons.
	ChannelMidi
	Arranger
	BrowserPlugin
	ArrowLeft
	ArrowRight
	FileSave
	Settings
	Macro
	Plugin
	Mixer
	Sampling
	Auto

	// Hardware presence flags. They arrive in the same bitmask bytes as
	// the buttons and are diffed the same way.
	PedalConnected
	MicrophoneConnected

	// Knob capacitive touch flags.
	Knob1Touch
	Knob2Touch
	Knob3Touch
	Knob4Touch
	Knob5Touch
	Knob6Touch
	Knob7Touch
	Knob8Touch
	MainKnobTouch

	// Value elements (knobs and audio pots). These never emit
	// press/release events, only change events.
	Knob1
	Knob2
	Knob3
	Knob4
	Knob5
	Knob6
	Knob7
	Knob8
	MainEncoder
	MicGain
	HeadphoneVolume
	MasterVolume
)

// ButtonElements lists every boolean element in its fixed enumeration
// order. The tracker iterates this slice when diffing states, which makes
// event ordering within a single update deterministic.
var ButtonElements = []Element{
	Play, Rec, Stop, Restart, Erase, Tap, Follow,
	GroupA, GroupB, GroupC, GroupD, GroupE, GroupF, GroupG, GroupH,
	Notes, Volume, Swing, Tempo, NoteRepeat, Lock,
	PadMode, Keyboard, Chords, Step, FixedVel, Scene, Pattern, Events,
	Variation, Duplicate, Select, Solo, Mute, Pitch, Mod, Perform,
	Shift, EncoderPush, EncoderUp, EncoderDown, EncoderLeft, EncoderRight,
	DisplayButton1, DisplayButton2, DisplayButton3, DisplayButton4,
	DisplayButton5, DisplayButton6, DisplayButton7, DisplayButton8,
	ChannelMidi, Arranger, BrowserPlugin, ArrowLeft, ArrowRight,
	FileSave, Settings, Macro, Plugin, Mixer, Sampling, Auto,
	PedalConnected, MicrophoneConnected,
	Knob1Touch, Knob2Touch, Knob3Touch, Knob4Touch,
	Knob5Touch, Knob6Touch, Knob7Touch, Knob8Touch, MainKnobTouch,
}

// KnobElements lists the continuous value elements in fixed order.
var KnobElements = []Element{
	Knob1, Knob2, Knob3, Knob4, Knob5, Knob6, Knob7, Knob8, MainEncoder,
}

// AudioElements lists the audio level elements in fixed order.
var AudioElements = []Element{MicGain, HeadphoneVolume, MasterVolume}

var elementNames = map[Element]string{
	Play: "Play", Rec: "Rec", Stop: "Stop", Restart: "Restart",
	Erase: "Erase", Tap: "Tap", Follow: "Follow",
	GroupA: "GroupA", GroupB: "GroupB", GroupC: "GroupC", GroupD: "GroupD",
	GroupE: "GroupE", GroupF: "GroupF", GroupG: "GroupG", GroupH: "GroupH",
	Notes: "Notes", Volume: "Volume", Swing: "Swing", Tempo: "Tempo",
	NoteRepeat: "NoteRepeat", Lock: "Lock", PadMode: "PadMode",
	Keyboard: "Keyboard", Chords: "Chords", Step: "Step",
	FixedVel: "FixedVel", Scene: "Scene", Pattern: "Pattern", Events: "Events",
	Variation: "Variation", Duplicate: "Duplicate", Select: "Select",
	Solo: "Solo", Mute: "Mute", Pitch: "Pitch", Mod: "Mod", Perform: "Perform",
	Shift: "Shift", EncoderPush: "EncoderPush", EncoderUp: "EncoderUp",
	EncoderDown: "EncoderDown", EncoderLeft: "EncoderLeft", EncoderRight: "EncoderRight",
	DisplayButton1: "DisplayButton1", DisplayButton2: "DisplayButton2",
	DisplayButton3: "DisplayButton3", DisplayButton4: "DisplayButton4",
	DisplayButton5: "DisplayButton5", DisplayButton6: "DisplayButton6",
	DisplayButton7: "DisplayButton7", DisplayButton8: "DisplayButton8",
	ChannelMidi: "ChannelMidi", Arranger: "Arranger", BrowserPlugin: "BrowserPlugin",
	ArrowLeft: "ArrowLeft", ArrowRight: "ArrowRight", FileSave: "FileSave",
	Settings: "Settings", Macro: "Macro", Plugin: "Plugin", Mixer: "Mixer",
	Sampling: "Sampling", Auto: "Auto",
	PedalConnected: "PedalConnected", MicrophoneConnected: "MicrophoneConnected",
	Knob1Touch: "Knob1Touch", Knob2Touch: "Knob2Touch", Knob3Touch: "Knob3Touch",
	Knob4Touch: "Knob4Touch", Knob5Touch: "Knob5Touch", Knob6Touch: "Knob6Touch",
	Knob7Touch: "Knob7Touch", Knob8Touch: "Knob8Touch", MainKnobTouch: "MainKnobTouch",
	Knob1: "Knob1", Knob2: "Knob2", Knob3: "Knob3", Knob4: "Knob4",
	Knob5: "Knob5", Knob6: "Knob6", Knob7: "Knob7", Knob8: "Knob8",
	MainEncoder: "MainEncoder", MicGain: "MicGain",
	HeadphoneVolume: "HeadphoneVolume", MasterVolume: "MasterVolume",
}

func (e Element) String() string {
	if name, ok := elementNames[e]; ok {
		return name
	}
	return "Unknown"
}
