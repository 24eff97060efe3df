package words

// 内置词库，沿用原版应用的单词列表
var allWordsList = []string{
	"animal", "auto", "anecdote", "alphabet", "all", "awesome", "arise", "balloon", "basket", "bench",
	"best", "birthday", "book", "briefcase", "camera", "camping", "candle", "cat", "cauliflower", "chat",
	"children", "class", "classic", "classroom", "coffee", "colorful", "cookie", "creative", "cruise", "dance",
	"daytime", "dinosaur", "doorknob", "dine", "dream", "dusk", "eating", "elephant", "emerald", "eerie",
	"electric", "finish", "flowers", "follow", "fox", "frame", "free", "frequent", "funnel", "green",
	"guitar", "grocery", "glass", "great", "giggle", "haircut", "half", "homemade", "happen", "honey",
	"hurry", "hundred", "ice", "igloo", "invest", "invite", "icon", "introduce", "joke", "jovial",
	"journal", "jump", "join", "kangaroo", "keyboard", "kitchen", "koala", "kind", "kaleidoscope", "landscape",
	"late", "laugh", "learning", "lemon", "letter", "lily", "magazine", "marine", "marshmallow", "maze",
	"meditate", "melody", "minute", "monument", "moon", "motorcycle", "mountain", "music", "north", "nose",
	"night", "name", "never", "negotiate", "number", "opposite", "octopus", "oak", "order", "open",
	"polar", "pack", "painting", "person", "picnic", "pillow", "pizza", "podcast", "presentation", "puppy",
	"puzzle", "recipe", "release", "restaurant", "revolve", "rewind", "room", "run", "secret", "seed",
	"ship", "shirt", "should", "small", "spaceship", "stargazing", "skill", "street", "style", "sunrise",
	"taxi", "tidy", "timer", "together", "tooth", "tourist", "travel", "truck", "under", "useful",
	"unicorn", "unique", "uplift", "uniform", "vase", "violin", "visit", "vision", "volcano", "volunteer",
	"wagon", "walk", "warm", "watch", "water", "wednesday", "wild", "willow", "window", "wonderful",
	"wave", "wishlist", "xray", "xylophone", "yarn", "yellow", "year", "yet", "yoga", "zebra",
	"zinnia", "zipper", "zoo", "zucchini",
}
