package seed

import "skilldev_backend/internal/model"

type categorySeed struct {
	Name        string
	Description string
	Icon        string
}

type skillSeed struct {
	Name        string
	Description string
	Category    string
	Difficulty  model.DifficultyLevel
	Hours       int
}

type moduleSeed struct {
	Title   string
	Minutes int
}

type courseSeed struct {
	Title       string
	Description string
	ImageURL    string
	Instructor  string
	Hours       int
	Capacity    int
	Difficulty  model.DifficultyLevel
	Price       float64
	Category    string
	Modules     []moduleSeed
}

type personSeed struct {
	Username  string
	FirstName string
	LastName  string
	Email     string
}

type workerSeed struct {
	personSeed
	EmployeeID string
}

const defaultPassword = "password123"

var categories = []categorySeed{
	{"Technology", "Technology and software development skills", "fas fa-laptop-code"},
	{"Business", "Business and management skills", "fas fa-briefcase"},
	{"Design", "Design and creative skills", "fas fa-palette"},
	{"Data Science", "Data analysis and science skills", "fas fa-chart-bar"},
	{"Marketing", "Marketing and communication skills", "fas fa-bullhorn"},
	{"Soft Skills", "Personal and interpersonal skills", "fas fa-users"},
}

var skills = []skillSeed{
	{"Python Programming", "Master Python programming language for web development, data science, and automation.", "Technology", model.Intermediate, 80},
	{"JavaScript Development", "Learn JavaScript for frontend and backend development with modern frameworks.", "Technology", model.Intermediate, 70},
	{"Full Stack Development", "Complete full-stack web development skills including frontend and backend technologies.", "Technology", model.Advanced, 120},
	{"Cloud Computing (AWS)", "Amazon Web Services cloud computing platform skills for scalable applications.", "Technology", model.Advanced, 100},
	{"DevOps & Docker", "DevOps practices, containerization with Docker, and CI/CD pipeline management.", "Technology", model.Advanced, 90},
	{"Project Management", "Effective project planning, execution, and management methodologies.", "Business", model.Intermediate, 60},
	{"Business Analytics", "Data-driven decision making using analytics tools and techniques.", "Business", model.Intermediate, 70},
	{"Strategic Planning", "Strategic thinking and long-term business planning skills.", "Business", model.Advanced, 50},
	{"UI/UX Design", "User interface and user experience design principles and practices.", "Design", model.Intermediate, 80},
	{"Graphic Design", "Visual design, typography, color theory, and branding design skills.", "Design", model.Intermediate, 75},
	{"Data Analysis", "Analyzing data using statistical methods and data visualization tools.", "Data Science", model.Intermediate, 65},
	{"Machine Learning", "Machine learning algorithms, neural networks, and AI model development.", "Data Science", model.Advanced, 100},
	{"Digital Marketing", "SEO, SEM, social media marketing, and online advertising strategies.", "Marketing", model.Beginner, 50},
	{"Leadership", "Leadership principles, team management, and inspiring others.", "Soft Skills", model.Intermediate, 40},
	{"Communication Skills", "Effective verbal and written communication for professional settings.", "Soft Skills", model.Beginner, 35},
}

// prerequisites skill -> 前置技能
var prerequisites = map[string][]string{
	"Full Stack Development": {"JavaScript Development", "Python Programming"},
	"DevOps & Docker":        {"Cloud Computing (AWS)"},
	"Machine Learning":       {"Python Programming", "Data Analysis"},
	"Strategic Planning":     {"Project Management"},
}

var instructors = []personSeed{
	{"john_doe", "John", "Doe", "john.doe@skillsdev.com"},
	{"jane_smith", "Jane", "Smith", "jane.smith@skillsdev.com"},
	{"mike_wilson", "Mike", "Wilson", "mike.wilson@skillsdev.com"},
	{"sarah_johnson", "Sarah", "Johnson", "sarah.johnson@skillsdev.com"},
}

var courses = []courseSeed{
	{
		Title:       "Complete Python Programming Masterclass",
		Description: "Master Python from beginner to advanced. Learn data structures, algorithms, OOP, web development and more.",
		ImageURL:    "https://images.unsplash.com/photo-1526379095098-d400fd0bf935?w=800",
		Instructor:  "john_doe", Hours: 60, Capacity: 50, Difficulty: model.Intermediate, Price: 299.99, Category: "Technology",
		Modules: []moduleSeed{{"Python Basics", 90}, {"Data Structures", 120}, {"Object-Oriented Programming", 150}, {"Web Development", 180}},
	},
	{
		Title:       "Advanced JavaScript and React Development",
		Description: "Modern JavaScript, React hooks, context and state management for production applications.",
		ImageURL:    "https://images.unsplash.com/photo-1633356122544-f134324a6cee?w=800",
		Instructor:  "jane_smith", Hours: 48, Capacity: 40, Difficulty: model.Advanced, Price: 349.99, Category: "Technology",
		Modules: []moduleSeed{{"JavaScript ES6+", 90}, {"React Fundamentals", 120}, {"React Hooks & Context", 150}, {"Redux & State Management", 180}},
	},
	{
		Title:       "Machine Learning Fundamentals",
		Description: "Supervised learning, neural networks and practical machine learning projects.",
		ImageURL:    "https://images.unsplash.com/photo-1555949963-aa79dcee981c?w=800",
		Instructor:  "mike_wilson", Hours: 72, Capacity: 30, Difficulty: model.Advanced, Price: 449.99, Category: "Data Science",
		Modules: []moduleSeed{{"Introduction to ML", 90}, {"Supervised Learning", 180}, {"Neural Networks", 240}, {"Practical Projects", 300}},
	},
	{
		Title:       "UI/UX Design Mastery",
		Description: "Design principles, user research, design tools and interactive prototyping.",
		ImageURL:    "https://images.unsplash.com/photo-1561070791-2526d30994b5?w=800",
		Instructor:  "sarah_johnson", Hours: 54, Capacity: 35, Difficulty: model.Intermediate, Price: 399.99, Category: "Design",
		Modules: []moduleSeed{{"Design Principles", 90}, {"User Research", 120}, {"Design Tools", 180}, {"Prototyping", 150}},
	},
	{
		Title:       "Digital Marketing Strategy",
		Description: "Marketing fundamentals, SEO, content and social media campaigns.",
		ImageURL:    "https://images.unsplash.com/photo-1460925895917-afdab827c52f?w=800",
		Instructor:  "jane_smith", Hours: 42, Capacity: 45, Difficulty: model.Beginner, Price: 249.99, Category: "Marketing",
		Modules: []moduleSeed{{"Marketing Fundamentals", 90}, {"SEO & Content Marketing", 120}, {"Social Media Marketing", 150}},
	},
	{
		Title:       "Project Management Professional (PMP)",
		Description: "Project management basics, agile methodology, risk management and exam preparation.",
		ImageURL:    "https://images.unsplash.com/photo-1454165804606-c3d57bc86b40?w=800",
		Instructor:  "jane_smith", Hours: 56, Capacity: 40, Difficulty: model.Intermediate, Price: 549.99, Category: "Business",
		Modules: []moduleSeed{{"Project Management Basics", 120}, {"Agile Methodology", 180}, {"Risk Management", 150}, {"PMP Exam Preparation", 120}},
	},
	{
		Title:       "Docker & Kubernetes for DevOps",
		Description: "Containers, orchestration and delivery pipelines.",
		ImageURL:    "https://images.unsplash.com/photo-1667372393119-3d4c48d07fc9?w=800",
		Instructor:  "mike_wilson", Hours: 44, Capacity: 25, Difficulty: model.Advanced, Price: 449.99, Category: "Technology",
	},
	{
		Title:       "Leadership & Team Management",
		Description: "Leading teams, giving feedback and running effective meetings.",
		ImageURL:    "https://images.unsplash.com/photo-1522071820081-009f0129c71c?w=800",
		Instructor:  "jane_smith", Hours: 38, Capacity: 45, Difficulty: model.Intermediate, Price: 329.99, Category: "Soft Skills",
	},
}

var departments = []string{"Engineering", "Design", "Marketing", "Sales", "Operations", "HR", "Finance", "Product Management"}

var positions = map[string][]string{
	"Engineering":        {"Software Engineer", "Senior Developer", "DevOps Engineer", "Full Stack Developer"},
	"Design":             {"UI/UX Designer", "Graphic Designer", "Product Designer"},
	"Marketing":          {"Marketing Manager", "Digital Marketing Specialist", "Content Writer"},
	"Sales":              {"Sales Representative", "Sales Manager", "Account Executive"},
	"Operations":         {"Operations Manager", "Project Coordinator"},
	"HR":                 {"HR Manager", "Recruiter", "HR Specialist"},
	"Finance":            {"Financial Analyst", "Accountant"},
	"Product Management": {"Product Manager", "Product Owner"},
}

var workers = []workerSeed{
	{personSeed{"johnsmith", "John", "Smith", "john.smith@company.com"}, "EMP001"},
	{personSeed{"sarahjohnson", "Sarah", "Johnson", "sarah.johnson@company.com"}, "EMP002"},
	{personSeed{"michaelchen", "Michael", "Chen", "michael.chen@company.com"}, "EMP003"},
	{personSeed{"emilydavis", "Emily", "Davis", "emily.davis@company.com"}, "EMP004"},
	{personSeed{"davidwilson", "David", "Wilson", "david.wilson@company.com"}, "EMP005"},
	{personSeed{"jessicabrown", "Jessica", "Brown", "jessica.brown@company.com"}, "EMP006"},
	{personSeed{"danielmiller", "Daniel", "Miller", "daniel.miller@company.com"}, "EMP007"},
	{personSeed{"amandataylor", "Amanda", "Taylor", "amanda.taylor@company.com"}, "EMP008"},
	{personSeed{"robertanderson", "Robert", "Anderson", "robert.anderson@company.com"}, "EMP009"},
	{personSeed{"lisamartinez", "Lisa", "Martinez", "lisa.martinez@company.com"}, "EMP010"},
}
