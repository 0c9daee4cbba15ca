package seed

var (
	firstNames = []string{
		"James", "Mary", "John", "Patricia", "Robert", "Jennifer", "Michael", "Linda",
		"William", "Elizabeth", "David", "Barbara", "Richard", "Susan", "Joseph", "Jessica",
		"Thomas", "Sarah", "Charles", "Karen", "Daniel", "Lisa", "Matthew", "Nancy",
		"Anthony", "Betty", "Mark", "Margaret", "Steven", "Sandra", "Andrew", "Ashley",
		"Paul", "Kimberly", "Joshua", "Emily", "Kenneth", "Donna", "Kevin", "Michelle",
	}

	lastNames = []string{
		"Smith", "Johnson", "Williams", "Brown", "Jones", "Garcia", "Miller", "Davis",
		"Rodriguez", "Martinez", "Wilson", "Anderson", "Taylor", "Thomas", "Moore", "Jackson",
		"Martin", "Lee", "Thompson", "White", "Harris", "Clark", "Lewis", "Robinson",
		"Walker", "Young", "Allen", "King", "Wright", "Scott", "Hill", "Green",
	}

	places = []struct {
		Country string
		City    string
	}{
		{"USA", "Portland"},
		{"USA", "Austin"},
		{"USA", "Denver"},
		{"Canada", "Toronto"},
		{"Canada", "Vancouver"},
		{"UK", "London"},
		{"UK", "Manchester"},
		{"Germany", "Berlin"},
		{"Netherlands", "Amsterdam"},
		{"Australia", "Melbourne"},
	}

	animals = []struct {
		Name  string
		Type  string
		Breed string
	}{
		{"Whiskers", "cat", "Tabby"},
		{"Luna", "cat", "Siamese"},
		{"Oliver", "cat", "Maine Coon"},
		{"Milo", "cat", "British Shorthair"},
		{"Cleo", "cat", "Domestic Shorthair"},
		{"Buddy", "dog", "Labrador Retriever"},
		{"Max", "dog", "German Shepherd"},
		{"Bella", "dog", "Golden Retriever"},
		{"Rocky", "dog", "Beagle"},
		{"Daisy", "dog", "Border Collie"},
		{"Coco", "other", "Holland Lop Rabbit"},
		{"Kiwi", "other", "Cockatiel"},
		{"Peanut", "other", "Guinea Pig"},
	}

	ages    = []string{"baby", "adult", "senior"}
	genders = []string{"female", "male"}
	origins = []string{"shelter", "foster", "owner", "stray", "other"}
)
