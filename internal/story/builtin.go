package story

import "github.com/verte-zerg/typesymphony/internal/model"

// The two monkeys and the fox.
var builtin = []model.Scene{
	{
		Index: 0,
		Title: "The Jungle Debate",
		Text:  "The jungle buzzed with excitement as the monkeys debated their next move. 'What’s the plan?' one asked. Another groaned, 'Food first. I’m starving!' But where would they find it? Looking around, they saw nothing. 'Maybe the city has better food!' one suggested. Excited, they set off on their journey.",
		Image: "scene1.jpg",
	},
	{
		Index: 1,
		Title: "The Wise Owl",
		Text:  "As they wandered, they realized they had no idea where to go. 'Are we even going the right way?' one monkey asked. 'No idea,' another admitted. 'Let’s ask someone.' Spotting a sleepy owl, they called out, 'Owl-ji, do you know the way to the city?' The owl sighed, 'You woke me for this? Go straight.' Trusting him, they marched forward.",
		Image: "scene2.jpg",
	},
	{
		Index: 2,
		Title: "The City’s Scent",
		Text:  "Soon, they spotted the city skyline. 'We made it!' they cheered, but hunger gnawed at them stronger than ever. Suddenly, a delicious scent filled the air. 'Smell that?' They followed it to a quiet house. 'Looks abandoned,' one noted. 'Should we go in?' Inside, they found a table overflowing with sweets.",
		Image: "scene3.jpg",
	},
	{
		Index: 3,
		Title: "The Greedy Fight",
		Text:  "The monkeys stared in disbelief. 'Dream or reality?' one murmured. Temptation won, and they lunged for the feast. Then came the problem—who gets how much? 'Half for me!' one declared. 'No, equal share!' another protested. Arguments erupted as greed took over. 'We need a fair way to divide this,' said the wisest monkey.",
		Image: "scene4.jpg",
	},
	{
		Index: 4,
		Title: "The Clever Fox",
		Text:  "Just then, a clever fox entered. 'What’s the problem?' he asked, grinning. The monkeys explained. 'Ah, I can help,' the fox said smoothly. He broke the butter into two pieces. 'See? Equal!' But one side was bigger. 'Oops,' the fox smirked, taking a bite from the larger piece. Now the other was bigger. 'Let me fix that,' he said, taking another bite. The monkeys gasped as the butter kept shrinking.",
		Image: "scene5.jpg",
	},
	{
		Index: 5,
		Title: "A Lesson Learned",
		Text:  "Too late, the monkeys realized the trick. 'You ate it all!' they cried. 'That wasn’t fair!' The fox grinned. 'Life isn’t fair,' he shrugged. 'But now there’s nothing left to fight over.' He trotted away, belly full. Furious, the monkeys blamed each other but soon sighed in defeat. 'Let’s go back to the jungle,' one said. As they lay under the stars, they reflected, 'Maybe hunger makes us foolish.' 'Or maybe greed does.' They drifted to sleep, wiser than before.",
		Image: "scene6.jpg",
	},
}
