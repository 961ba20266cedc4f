package wellness

import "github.com/benvon/replan/internal/models"

// Category groups tips by the wellbeing area they address
type Category string

const (
	CategoryHydration Category = "hydration"
	CategoryDiet      Category = "diet"
	CategoryExercise  Category = "exercise"
	CategoryMental    Category = "mental"
	CategorySleep     Category = "sleep"
	CategoryPosture   Category = "posture"
	CategoryEye       Category = "eye"
)

// Tip is a single piece of wellness advice
type Tip struct {
	Text     string
	Icon     string
	Category Category
}

// String renders the tip as shown on a block
func (t Tip) String() string {
	return t.Icon + " " + t.Text
}

var wakeTips = []Tip{
	{"Start with a glass of water to rehydrate after the night", "💧", CategoryHydration},
	{"Wake your body up with five minutes of stretching", "🧘", CategoryExercise},
	{"Open the curtains; morning light helps your mood", "☀️", CategoryMental},
	{"Take three deep breaths to begin the day calmly", "🌬️", CategoryMental},
	{"A short walk after waking steadies your sleep rhythm", "🚶", CategorySleep},
}

var breakfastTips = []Tip{
	{"A protein-rich breakfast sharpens morning focus (eggs, Greek yogurt)", "🥚", CategoryDiet},
	{"Banana and nuts make a quick, nourishing breakfast", "🍌", CategoryDiet},
	{"Add a piece of fruit for your morning vitamins", "🍎", CategoryDiet},
	{"Oatmeal with honey and berries is a healthy carb boost", "🥣", CategoryDiet},
	{"Drink a glass of water with breakfast to help digestion", "💧", CategoryHydration},
}

var lunchTips = []Tip{
	{"Avoid the afternoon slump: go easy on carbs, favor vegetables and protein", "🥗", CategoryDiet},
	{"A ten-minute walk after lunch helps digestion and focus", "🚶", CategoryExercise},
	{"Chew slowly; you will feel full sooner and digest better", "🍽️", CategoryDiet},
	{"Include some fiber-rich vegetables at lunch", "🥦", CategoryDiet},
	{"Green tea after lunch keeps caffeine in check better than coffee", "🍵", CategoryDiet},
}

var dinnerTips = []Tip{
	{"Finish your last meal three hours before bed for better sleep", "🌙", CategorySleep},
	{"Keep dinner light; overeating can disturb your sleep", "🍽️", CategoryDiet},
	{"Magnesium-rich foods (spinach, almonds) support sleep", "🥬", CategoryDiet},
	{"A warm bowl of soup relaxes body and mind", "🍲", CategoryDiet},
	{"Take a light walk after dinner to aid digestion", "🚶", CategoryExercise},
}

var workMorningTips = []Tip{
	{"Reset your focus with a five-minute stretch every 90 minutes", "🧘", CategoryPosture},
	{"Tackle important work in the morning while focus peaks", "🎯", CategoryMental},
	{"List your tasks before you start to work more efficiently", "📋", CategoryMental},
	{"Start with a glass of water; your brain needs it", "💧", CategoryHydration},
	{"Sit up straight to reduce fatigue", "🪑", CategoryPosture},
}

var workAfternoonTips = []Tip{
	{"Rest your eyes with 20-20-20: every 20 minutes look 20 feet away for 20 seconds", "👁️", CategoryEye},
	{"Afternoon slump? A light stretch or short walk helps", "🚶", CategoryExercise},
	{"Cutting caffeine after 2pm helps you sleep", "☕", CategorySleep},
	{"Change your posture; standing for a while works well too", "🧍", CategoryPosture},
	{"Snack on nuts or fruit to keep blood sugar steady", "🥜", CategoryDiet},
}

var exerciseTips = []Tip{
	{"Have a light snack and some water 30 minutes before exercising", "💧", CategoryHydration},
	{"Five minutes of warm-up is key to avoiding injury", "🔥", CategoryExercise},
	{"Protein within 30 minutes after exercise helps muscles recover", "🥛", CategoryDiet},
	{"Don't push too hard; go at your own pace", "💪", CategoryExercise},
	{"Cool down with stretching to reduce muscle fatigue", "🧘", CategoryExercise},
}

var breakTips = []Tip{
	{"Close your eyes and take three deep breaths to refresh", "🌬️", CategoryMental},
	{"Have a glass of water; aim for eight a day", "💧", CategoryHydration},
	{"Roll your neck and shoulders to release tension", "🔄", CategoryPosture},
	{"Look out the window for a moment to rest your eyes", "🌳", CategoryEye},
	{"Listen to a favorite song to change your mood", "🎵", CategoryMental},
}

var freeTimeTips = []Tip{
	{"Dim your screens an hour before bed to cut blue light", "📱", CategorySleep},
	{"Light reading before bed helps you fall asleep", "📖", CategorySleep},
	{"Wind down the day with a cup of warm tea", "🍵", CategoryMental},
	{"Think of three things you were grateful for today", "🙏", CategoryMental},
	{"Ease the day's fatigue with foam rolling or stretching", "🧘", CategoryExercise},
}

var sleepTips = []Tip{
	{"Well done today! Close the day with a short breathing meditation", "🧘", CategoryMental},
	{"A room at 18-20°C helps deep sleep", "🌡️", CategorySleep},
	{"Write down tomorrow's tasks to put your mind at ease", "📝", CategoryMental},
	{"Going to bed and waking at the same time is the core of healthy sleep", "⏰", CategorySleep},
	{"Warm feet help you fall asleep (try sleep socks!)", "🧦", CategorySleep},
}

var commuteTips = []Tip{
	{"Turn your commute into learning time with a podcast or audiobook", "🎧", CategoryMental},
	{"Get off one stop early and walk the rest", "🚶", CategoryExercise},
	{"Bring a bottle of water for the day", "💧", CategoryHydration},
}

var conditionTips = map[models.Condition][]Tip{
	models.ConditionGood: {
		{"You're feeling good! Focus on something challenging today", "🚀", CategoryMental},
		{"With energy to spare, you can push your workout a little harder", "💪", CategoryExercise},
		{"Keep the good energy going; don't forget to hydrate", "💧", CategoryHydration},
	},
	models.ConditionNormal: {
		{"Consistency is strength. Follow the plan step by step", "📋", CategoryMental},
		{"Proper rest is the secret of productivity", "⚖️", CategoryMental},
		{"Keep your condition steady with water and balanced meals", "🍽️", CategoryDiet},
	},
	models.ConditionBad: {
		{"Don't overdo it. Doing only the essentials and resting early is a strategy too", "🛡️", CategoryMental},
		{"When you feel unwell, warm water and light food help", "🍵", CategoryDiet},
		{"It's fine to be gentle with yourself today", "🤗", CategoryMental},
	},
}

var menstrualTips = map[models.MenstrualCondition][]Tip{
	models.MenstrualNormal: {},
	models.MenstrualPMS: {
		{"Magnesium-rich foods ease PMS symptoms (dark chocolate, bananas)", "🍫", CategoryDiet},
		{"Cut back on caffeine and salty food during PMS", "🧂", CategoryDiet},
		{"Gentle yoga or stretching can lift your mood", "🧘", CategoryExercise},
	},
	models.MenstrualPeriod: {
		{"Eat iron-rich foods (spinach, lean meat, tofu)", "🥬", CategoryDiet},
		{"Stay warm with hot drinks and a heat pack", "🫖", CategoryDiet},
		{"Choose a light walk or stretching over intense exercise", "🚶", CategoryExercise},
	},
	models.MenstrualPost: {
		{"Pay attention to nutrition to replenish iron after your period", "🥩", CategoryDiet},
		{"Your energy is coming back; increase activity gradually", "💪", CategoryExercise},
	},
}
