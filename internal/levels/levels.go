// Package levels ships the built-in five-level question bank. Content is
// static; swap the loader for a database-backed one to change it without a
// rebuild.
package levels

import "escape-game-service/internal/domain"

// Default returns the built-in bank: five sequential levels whose unlocked
// letters assemble the secret word at their slot positions.
func Default() domain.LevelBank {
	return domain.LevelBank{
		SecretWord: "ELEVEN",
		Hint:       "The one with powers",
		Levels: []domain.LevelDefinition{
			level1(),
			level2(),
			level3(),
			level4(),
			level5(),
		},
	}
}

func level1() domain.LevelDefinition {
	return domain.LevelDefinition{
		LevelNumber:    1,
		Name:           "Level 1: MCQs",
		Modality:       domain.ModalityChoice,
		LetterToUnlock: "E",
		SlotPosition:   0,
		ClearThreshold: 3,
		Questions: []domain.Question{
			{
				ID:       "l1q1",
				Modality: domain.ModalityChoice,
				Prompt:   "Which of the following is a version control system?",
				Options: []domain.Option{
					{ID: "A", Text: "Docker"},
					{ID: "B", Text: "Git"},
					{ID: "C", Text: "JVM"},
					{ID: "D", Text: "MySQL"},
				},
				AcceptedAnswer:   "Git",
				Points:           10,
				TimeLimitSeconds: 30,
			},
			{
				ID:       "l1q2",
				Modality: domain.ModalityChoice,
				Prompt:   "Which protocol is used to send emails?",
				Options: []domain.Option{
					{ID: "A", Text: "FTP"},
					{ID: "B", Text: "SMTP"},
					{ID: "C", Text: "HTTP"},
					{ID: "D", Text: "TCP"},
				},
				AcceptedAnswer:   "SMTP",
				Points:           10,
				TimeLimitSeconds: 30,
			},
			{
				ID:       "l1q3",
				Modality: domain.ModalityChoice,
				Prompt:   "Which data structure is best for BFS traversal?",
				Options: []domain.Option{
					{ID: "A", Text: "Stack"},
					{ID: "B", Text: "Queue"},
					{ID: "C", Text: "Tree"},
					{ID: "D", Text: "Graph"},
				},
				AcceptedAnswer:   "Queue",
				Points:           10,
				TimeLimitSeconds: 30,
			},
			{
				ID:        "l1q4",
				Modality:  domain.ModalityChoice,
				Prompt:    "What will be printed?",
				Auxiliary: `print(bool("False"))`,
				Options: []domain.Option{
					{ID: "A", Text: "False"},
					{ID: "B", Text: "True"},
					{ID: "C", Text: "Error"},
					{ID: "D", Text: "None"},
				},
				AcceptedAnswer:   "True",
				Points:           10,
				TimeLimitSeconds: 30,
			},
			{
				ID:        "l1q5",
				Modality:  domain.ModalityChoice,
				Prompt:    "What is the output of the following code?",
				Auxiliary: "int i = 0;\nprintf(\"%d %d\", i++, ++i);",
				Options: []domain.Option{
					{ID: "A", Text: "0 1"},
					{ID: "B", Text: "0 2"},
					{ID: "C", Text: "1 2"},
					{ID: "D", Text: "Undefined behavior"},
				},
				AcceptedAnswer:   "Undefined behavior",
				Points:           10,
				TimeLimitSeconds: 30,
			},
		},
	}
}

func level2() domain.LevelDefinition {
	return domain.LevelDefinition{
		LevelNumber:    2,
		Name:           "Level 2: Debugging",
		Modality:       domain.ModalityFreeText,
		LetterToUnlock: "L",
		SlotPosition:   1,
		ClearThreshold: 2,
		Questions: []domain.Question{
			{
				ID:       "l2q1",
				Modality: domain.ModalityFreeText,
				Prompt: "This palindrome checker skips non-alphanumeric characters but " +
					"fails for some inputs. Which missing keyword would make the skip " +
					"branches restart the loop?",
				Auxiliary: "def isPalindrome(s):\n" +
					"    s = s.lower()\n" +
					"    l, r = 0, len(s) - 1\n" +
					"    while l < r:\n" +
					"        if not s[l].isalnum():\n" +
					"            l += 1\n" +
					"        if not s[r].isalnum():\n" +
					"            r -= 1\n" +
					"        if s[l] != s[r]:\n" +
					"            return False\n" +
					"        l += 1\n" +
					"        r -= 1\n" +
					"    return True",
				AcceptedAnswer:   "continue",
				Points:           10,
				TimeLimitSeconds: 90,
			},
			{
				ID:       "l2q2",
				Modality: domain.ModalityFreeText,
				Prompt: "This loop is meant to stop at the array's last element but " +
					"reads one past the end. Which comparison operator should replace <= ?",
				Auxiliary: "for (int i = 0; i <= n; i++) {\n" +
					"    sum += arr[i];\n" +
					"}",
				AcceptedAnswer:   "<",
				Points:           10,
				TimeLimitSeconds: 90,
			},
		},
	}
}

func level3() domain.LevelDefinition {
	return domain.LevelDefinition{
		LevelNumber:    3,
		Name:           "Level 3: Riddle",
		Modality:       domain.ModalityCharacterLock,
		LetterToUnlock: "E",
		SlotPosition:   2,
		ClearThreshold: 2,
		Questions: []domain.Question{
			{
				ID:       "l3q1",
				Modality: domain.ModalityCharacterLock,
				Prompt: "I promise one thing,\nbut deliver another.\nI look correct,\n" +
					"yet behave incorrectly.\nCompilers trust me.\nDebuggers hate me.\n\nWhat am I?",
				Auxiliary:        "The rules say it should behave… but the rules never promised how.",
				AcceptedAnswer:   "UNDEFINEDBEHAVIOR",
				Points:           10,
				TimeLimitSeconds: 60,
			},
			{
				ID:       "l3q2",
				Modality: domain.ModalityCharacterLock,
				Prompt: "I look like data,\nbut I am not data.\nChange me,\nand many things change.\n" +
					"Copy me wrong,\nand chaos begins.\n\nWhat am I?",
				Auxiliary:        "It doesn't hold the value — it knows where the value lives.",
				AcceptedAnswer:   "POINTER",
				Points:           10,
				TimeLimitSeconds: 60,
			},
			{
				ID:       "l3q3",
				Modality: domain.ModalityCharacterLock,
				Prompt: "I connect\nyour code to the outside world.\nI look like a function,\n" +
					"but I am not one.\nBreak me,\nand nothing talks.\n\nWhat am I?",
				Auxiliary:        "Applications promise it; servers keep it.",
				AcceptedAnswer:   "API",
				Points:           10,
				TimeLimitSeconds: 60,
			},
		},
	}
}

func level4() domain.LevelDefinition {
	scenario := "The Upside Down Network — you are investigating a network breach. " +
		"The administrator reports multiple failed logins from an unknown IP, a " +
		"suspicious process running with elevated privileges, encrypted files " +
		"appearing in the research directory, and a traffic spike during off-hours."

	return domain.LevelDefinition{
		LevelNumber:    4,
		Name:           "Level 4: Scenarios",
		Modality:       domain.ModalityChoice,
		LetterToUnlock: "V",
		SlotPosition:   3,
		ClearThreshold: 3,
		Questions: []domain.Question{
			{
				ID:        "l4q1",
				Modality:  domain.ModalityChoice,
				Prompt:    "What type of attack is most likely occurring based on the failed login attempts?",
				Auxiliary: scenario,
				Options: []domain.Option{
					{ID: "A", Text: "SQL Injection"},
					{ID: "B", Text: "Brute Force Attack"},
					{ID: "C", Text: "Cross-Site Scripting (XSS)"},
					{ID: "D", Text: "Man-in-the-Middle Attack"},
				},
				AcceptedAnswer:   "Brute Force Attack",
				Points:           10,
				TimeLimitSeconds: 120,
			},
			{
				ID:        "l4q2",
				Modality:  domain.ModalityChoice,
				Prompt:    "The suspicious process with elevated privileges is most likely a:",
				Auxiliary: scenario,
				Options: []domain.Option{
					{ID: "A", Text: "Firewall"},
					{ID: "B", Text: "Antivirus Scanner"},
					{ID: "C", Text: "Rootkit or Backdoor"},
					{ID: "D", Text: "System Update Service"},
				},
				AcceptedAnswer:   "Rootkit or Backdoor",
				Points:           10,
				TimeLimitSeconds: 120,
			},
			{
				ID:        "l4q3",
				Modality:  domain.ModalityChoice,
				Prompt:    "Encrypted files appearing without authorization typically indicate:",
				Auxiliary: scenario,
				Options: []domain.Option{
					{ID: "A", Text: "Disk Defragmentation"},
					{ID: "B", Text: "Ransomware Activity"},
					{ID: "C", Text: "Scheduled Backup"},
					{ID: "D", Text: "File Compression"},
				},
				AcceptedAnswer:   "Ransomware Activity",
				Points:           10,
				TimeLimitSeconds: 120,
			},
			{
				ID:        "l4q4",
				Modality:  domain.ModalityChoice,
				Prompt:    "What should be the first response to contain the breach?",
				Auxiliary: scenario,
				Options: []domain.Option{
					{ID: "A", Text: "Delete all encrypted files"},
					{ID: "B", Text: "Isolate affected systems from the network"},
					{ID: "C", Text: "Restart every server"},
					{ID: "D", Text: "Ignore until business hours"},
				},
				AcceptedAnswer:   "Isolate affected systems from the network",
				Points:           10,
				TimeLimitSeconds: 120,
			},
		},
	}
}

func level5() domain.LevelDefinition {
	return domain.LevelDefinition{
		LevelNumber:    5,
		Name:           "Level 5: Cipher",
		Modality:       domain.ModalityChoice,
		LetterToUnlock: "N",
		SlotPosition:   5,
		ClearThreshold: 1,
		Questions: []domain.Question{
			{
				ID:        "l5q1",
				Modality:  domain.ModalityChoice,
				Prompt:    "The following message was encrypted using a Caesar cipher. What is the decrypted message?",
				Auxiliary: "WKH JDPH LV RSHQ",
				Options: []domain.Option{
					{ID: "A", Text: "THE GATE IS OPEN"},
					{ID: "B", Text: "YOU WIN NOW"},
					{ID: "C", Text: "ESCAPE NOW"},
					{ID: "D", Text: "THE GAME IS OPEN"},
				},
				AcceptedAnswer:   "THE GAME IS OPEN",
				Points:           10,
				TimeLimitSeconds: 45,
			},
		},
	}
}
