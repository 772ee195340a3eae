package seed

// DictionarySize is the number of words in the phrase dictionary.
const DictionarySize = 1024

// dictionary is the fixed, versioned word list used to render seed phrases.
// It is a compatibility artifact: the list is sorted ascending and every
// 3-letter prefix is unique, which the codec's early-exit prefix scan and
// the partial-word matching rules both depend on. Changing any entry
// invalidates every previously generated phrase.
var dictionary = [DictionarySize]string{
	"abbey", "ablaze", "abort", "abyss", "academy", "acid", "acorn", "actress",
	"acumen", "addicted", "adept", "adopt", "adrift", "advance", "aerial",
	"affair", "afield", "afoot", "afraid", "again", "agenda", "aglow", "agony",
	"ahead", "aided", "ajar", "akin", "alarm", "alert", "algebra", "alley",
	"almost", "alpine", "also", "alumni", "always", "ambush", "amend", "ammo",
	"among", "amused", "anchor", "angle", "animal", "annoy", "answer", "anvil",
	"anybody", "apex", "aphid", "appear", "apricot", "aquarium", "arbor",
	"archer", "arena", "argue", "armor", "around", "arson", "artistic",
	"ashen", "aside", "asleep", "aspire", "asthma", "asylum", "atom", "atrium",
	"auburn", "auction", "august", "aunt", "avatar", "avenge", "avoid",
	"awaken", "awkward", "awning", "axes", "axis", "axle", "azure", "back",
	"bagel", "bailed", "balance", "bamboo", "barber", "basin", "bawled",
	"bays", "became", "bedroom", "begun", "behind", "below", "bemused",
	"berry", "besides", "beware", "beyond", "bicycle", "bids", "biggest",
	"bikini", "binocular", "biology", "biplane", "biscuit", "bite", "blender",
	"blip", "blue", "boat", "bogeys", "boil", "bomb", "border", "bounced",
	"bovine", "boxes", "boyfriend", "brunt", "bubble", "budget", "buffet",
	"building", "bulb", "bunch", "business", "buying", "buzzer", "cactus",
	"cadets", "cafe", "cajun", "cake", "camp", "candy", "cardinal", "case",
	"cause", "cavern", "ceiling", "cell", "cent", "certain", "chlorine",
	"chrome", "cigar", "cinema", "cistern", "citadel", "claim", "click",
	"coal", "cobra", "code", "coffee", "coils", "colony", "comb", "copy",
	"corrode", "cottage", "cousin", "criminal", "crunch", "cube", "cuffs",
	"culprit", "cupcake", "cycling", "dabbing", "daft", "dagger", "damp",
	"dangerous", "darkness", "dash", "dawn", "daytime", "debut", "decay",
	"deepest", "deftly", "dehydrate", "deity", "dejected", "demonstrate",
	"dented", "depth", "desk", "dice", "diet", "dilute", "dime", "diode",
	"diplomat", "distance", "ditch", "dizzy", "doctor", "does", "dogs",
	"dolphin", "domestic", "doorway", "dosage", "double", "dove", "dozen",
	"dreams", "drowning", "drunk", "dual", "duckling", "dude", "duke", "dummy",
	"duplex", "dusted", "dwarf", "dwelt", "dying", "dynamite", "eagle",
	"earth", "eating", "ebony", "echo", "eclipse", "eden", "edgy", "educated",
	"eels", "egotistic", "eight", "eject", "elapse", "eldest", "eleven",
	"elite", "else", "eluded", "ember", "emerge", "emotion", "empty", "enamel",
	"enclose", "energy", "enforce", "enigma", "enjoy", "enmity", "enough",
	"ensign", "entrance", "epoxy", "equip", "erected", "erosion", "eskimos",
	"espionage", "estate", "etched", "ethics", "etiquette", "evaluate",
	"evicted", "evolved", "excess", "exhale", "exotic", "expires", "eyesight",
	"fabrics", "fading", "fainted", "fall", "family", "farming", "fatal",
	"fawns", "faxed", "feast", "february", "feel", "feline", "fences", "ferry",
	"fetches", "fever", "fiat", "fibula", "fictional", "fierce", "fifteen",
	"films", "firm", "fitting", "five", "fizzle", "fleet", "flying", "foamy",
	"foes", "foggy", "folding", "fonts", "fossil", "fountain", "foxes",
	"foyer", "friendly", "frown", "frying", "fudge", "fully", "fuming",
	"furnished", "fuselage", "future", "gables", "gadget", "gained", "galaxy",
	"gang", "garlic", "gather", "gauze", "gawk", "gaze", "gecko", "geek",
	"gemstone", "general", "germs", "gesture", "geyser", "giant", "gigantic",
	"gills", "ginger", "girth", "glass", "gleeful", "gnaw", "gnome", "goat",
	"goes", "goggles", "gone", "gopher", "gotten", "gown", "guarded", "guest",
	"gulp", "gumball", "gusts", "gutter", "gyrate", "habitat", "haggled",
	"hairy", "hands", "happens", "hatchet", "haunted", "hawk", "haystack",
	"heavy", "hectare", "heels", "hefty", "height", "hence", "heron",
	"hexagon", "hickory", "highway", "hijack", "hills", "himself", "hippo",
	"hire", "hitched", "hive", "hobby", "hockey", "hold", "honked", "hope",
	"hornet", "hounded", "hover", "hubcaps", "hudson", "hull", "humid",
	"hurried", "husband", "huts", "hydrogen", "hyper", "icon", "identity",
	"idled", "idols", "ignore", "iguana", "impel", "inactive", "incur",
	"industrial", "inflamed", "ingested", "injury", "inkling", "inmate",
	"input", "insult", "intended", "invoke", "inwardly", "irate", "iris",
	"irritate", "island", "isolated", "italics", "itches", "itinerary",
	"itself", "jabbed", "jackets", "jailed", "jamming", "jargon", "jaunt",
	"jazz", "jeans", "jellyfish", "jeopardy", "jester", "jetting", "jigsaw",
	"jingle", "jive", "jobs", "jogger", "joining", "jolted", "jostle",
	"joyous", "jubilee", "judge", "juicy", "jukebox", "jump", "junk",
	"justice", "juvenile", "keep", "kennel", "kernels", "kettle", "kickoff",
	"kidneys", "kinetic", "kiosk", "kitchens", "kiwi", "knee", "knife",
	"koala", "kudos", "lagoon", "lair", "lamb", "language", "large", "last",
	"later", "lawsuit", "layout", "leech", "left", "lemon", "lending",
	"lesson", "lettuce", "liar", "licks", "lied", "lifestyle", "likewise",
	"lilac", "linen", "lion", "liquid", "listen", "living", "lizard", "locker",
	"lodge", "logbook", "loincloth", "looking", "lopped", "lordship",
	"lottery", "loudly", "lower", "loyal", "luggage", "lukewarm", "lumber",
	"lunar", "lush", "luxury", "lynx", "lyrics", "madness", "magically",
	"major", "makeup", "mammal", "manual", "match", "maul", "maximum", "mayor",
	"meant", "mechanic", "meeting", "megabyte", "melting", "menu", "merger",
	"metro", "mews", "midst", "mighty", "minute", "mirror", "mittens",
	"mixture", "mobile", "mocked", "moisture", "molten", "money", "mops",
	"mostly", "motherly", "movement", "mowing", "muddy", "muffin", "mullet",
	"mumble", "muppet", "mural", "musket", "myriad", "mystery", "nagged",
	"nail", "nanny", "napkin", "nasty", "natural", "nearby", "nectar",
	"negative", "neither", "nephew", "nerves", "network", "neutral", "newt",
	"nexus", "niche", "niece", "nightly", "nimbly", "nirvana", "nobody",
	"nodes", "noises", "nomad", "nouns", "novelty", "nozzle", "nuance",
	"nudged", "nugget", "null", "number", "nurse", "nutshell", "oaks", "oars",
	"oatmeal", "obedient", "obliged", "obnoxious", "obtains", "obvious",
	"ocean", "october", "odometer", "offend", "oilfield", "ointment", "older",
	"olive", "olympics", "omission", "omnibus", "oncoming", "online", "onward",
	"oozed", "opened", "opposite", "opus", "orange", "orchid", "ordinary",
	"origin", "ornament", "oscar", "other", "ouch", "ought", "ourselves",
	"oust", "oval", "oven", "owls", "owner", "oxygen", "oyster", "ozone",
	"pager", "palace", "pancakes", "paper", "pause", "pavements", "payment",
	"peaches", "peculiar", "pedantic", "pegs", "pelican", "people", "pepper",
	"pests", "petals", "pheasants", "phone", "physics", "piano", "pierce",
	"pimple", "pioneer", "pipeline", "pistons", "pitched", "pivot", "pizza",
	"plank", "plus", "plywood", "pockets", "podcast", "point", "poker",
	"ponies", "pool", "portents", "possible", "pouch", "powder", "present",
	"pride", "pruned", "prying", "public", "pucker", "puffin", "pulp", "punch",
	"puppy", "push", "putty", "pylons", "python", "quack", "quick", "quote",
	"racetrack", "radar", "rage", "railway", "rally", "ramped", "rapid",
	"rarest", "rated", "ravine", "razor", "reef", "regular", "reheat",
	"rejoices", "rekindle", "remedy", "renting", "repent", "reruns", "return",
	"reunion", "revamp", "rhino", "rhythm", "richly", "ridges", "rigid",
	"rims", "riots", "ripped", "ritual", "river", "robot", "rockets", "rogue",
	"roles", "roomy", "roped", "rotate", "rounded", "rowboat", "royal",
	"rudely", "rugged", "ruling", "rumble", "rural", "rustled", "ruthless",
	"sack", "sadness", "saga", "sailor", "salads", "sample", "sapling",
	"sarcasm", "satin", "saucepan", "sawmill", "saxophone", "scamper",
	"scenic", "science", "scoop", "scuba", "seasons", "sedan", "seeded",
	"seismic", "seldom", "seventh", "sewage", "shelter", "shipped", "shocking",
	"shuffled", "shyness", "sickness", "sidekick", "sifting", "sighting",
	"simplest", "sincerely", "sirens", "sitting", "sizes", "skater",
	"skirting", "skulls", "slackens", "sleepless", "slower", "slug", "smog",
	"snake", "sniff", "snout", "soapy", "sober", "soda", "software", "soggy",
	"solved", "somewhere", "soothe", "sorry", "soya", "space", "sphere",
	"spiders", "spout", "sprig", "spying", "square", "stellar", "stick",
	"strained", "stunning", "subtly", "succeed", "suede", "suffice",
	"suitcase", "sulking", "sunken", "superior", "sushi", "suture", "swagger",
	"swiftly", "sword", "syllabus", "symptoms", "syringe", "system", "tacit",
	"tadpoles", "tail", "taken", "tamper", "tanks", "tarnished", "tasked",
	"taunts", "tavern", "taxi", "teardrop", "tedious", "teeming", "template",
	"tender", "tequila", "terminal", "tether", "textbook", "thaw", "thirsty",
	"thorn", "thumbs", "thwart", "tiers", "tiger", "timber", "tinted",
	"tirade", "tissue", "toaster", "tobacco", "toenail", "toffee", "toilet",
	"token", "tomorrow", "tonic", "torch", "tossed", "touchy", "towel",
	"toyed", "trash", "tribal", "trolling", "truth", "tsunami", "tubes",
	"tudor", "tuesday", "tugs", "tuition", "tunnel", "turnip", "tutor",
	"tuxedo", "tweezers", "twice", "ugly", "ulcers", "umbrella", "umpire",
	"unbending", "uncle", "uneven", "unfit", "unhappy", "union", "unknown",
	"unlikely", "unnoticed", "unopened", "unplugs", "unrest", "unsafe",
	"unusual", "unveil", "unzip", "upbeat", "upgrade", "uphill", "upload",
	"upon", "upright", "upstairs", "upwards", "urban", "urgent", "usage",
	"usher", "using", "utensils", "utility", "utopia", "uttered", "vague",
	"vain", "vampire", "vane", "vapidly", "vastness", "vats", "vector",
	"veered", "vehicle", "velvet", "verification", "vessel", "vexed", "vials",
	"victim", "video", "vigilant", "viking", "vinegar", "violin", "virtual",
	"visited", "vivid", "vixen", "vogue", "voice", "vortex", "voted", "vowels",
	"voyage", "vulture", "waffle", "wagtail", "waking", "wallets", "warped",
	"washing", "waveform", "waxed", "website", "wedge", "weird", "welders",
	"wept", "were", "wetsuit", "whale", "whipped", "whole", "widen", "wield",
	"wiggle", "wildly", "wipeout", "wiring", "withdrawn", "wives", "wizard",
	"woes", "woken", "womanly", "wonders", "worry", "wounded", "wrap", "wrist",
	"yacht", "yahoo", "yards", "yawning", "yellow", "yesterday", "yields",
	"yodel", "younger", "yoyo", "zebra", "zesty", "zinger", "zippers",
	"zombie", "zones",
}

// init asserts the dictionary invariants the codec relies on. A violation
// here means the word list was edited, which breaks phrase compatibility.
func init() {
	prefixes := make(map[string]struct{}, DictionarySize)
	for i, word := range dictionary {
		if len(word) < prefixLen {
			panic("seed: dictionary word shorter than prefix length: " + word)
		}
		if i > 0 && dictionary[i-1] >= word {
			panic("seed: dictionary not sorted at " + word)
		}
		p := word[:prefixLen]
		if _, dup := prefixes[p]; dup {
			panic("seed: duplicate dictionary prefix " + p)
		}
		prefixes[p] = struct{}{}
	}
}
